package enemy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig     = errors.New("enemy: invalid config")
	ErrMissingCapability = errors.New("enemy: missing capability")
)

const (
	DefaultDetectionRange = 15.0
	DefaultFieldOfView    = 90.0
	DefaultFireRate       = 1.0
	DefaultMaxHealth      = 100
)

// Config holds the agent's perception, combat and health tuning. It is
// fixed once the controller is built.
type Config struct {
	DetectionRange float64
	// FieldOfView is the full cone width in degrees, centered on forward.
	FieldOfView float64
	// FireRate is shots per second.
	FireRate  float64
	MaxHealth int
}

func DefaultConfig() Config {
	return Config{
		DetectionRange: DefaultDetectionRange,
		FieldOfView:    DefaultFieldOfView,
		FireRate:       DefaultFireRate,
		MaxHealth:      DefaultMaxHealth,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.DetectionRange <= 0:
		return fmt.Errorf("%w: detection range %v must be > 0", ErrInvalidConfig, c.DetectionRange)
	case c.FieldOfView <= 0 || c.FieldOfView > 360:
		return fmt.Errorf("%w: field of view %v must be in (0, 360]", ErrInvalidConfig, c.FieldOfView)
	case c.FireRate <= 0:
		return fmt.Errorf("%w: fire rate %v must be > 0", ErrInvalidConfig, c.FireRate)
	case c.MaxHealth <= 0:
		return fmt.Errorf("%w: max health %d must be > 0", ErrInvalidConfig, c.MaxHealth)
	}
	return nil
}

// Refs are the external objects the agent reads but never owns.
type Refs struct {
	// Self is the agent's own entity id, used to tag shots.
	Self EntityID
	// Player may be nil; combat and detection then do nothing.
	Player     Target
	StartPoint Locator
	EndPoint   Locator
	// CoverPoints is scanned in order; the first of equally close points wins.
	CoverPoints []Locator
}
