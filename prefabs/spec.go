package prefabs

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/sentry/enemy"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type EnemySpec struct {
	Name           string  `yaml:"name"`
	DetectionRange float64 `yaml:"detection_range"`
	FieldOfView    float64 `yaml:"field_of_view"`
	FireRate       float64 `yaml:"fire_rate"`
	MaxHealth      int     `yaml:"max_health"`
	MoveSpeed      float64 `yaml:"move_speed"`
	Radius         float64 `yaml:"radius"`
	TriggerRadius  float64 `yaml:"trigger_radius"`
	BaseDamage     int     `yaml:"base_damage"`
	FireScript     string  `yaml:"fire_script"`
}

// Config returns the controller settings, falling back to the defaults for
// anything left out of the file.
func (s EnemySpec) Config() enemy.Config {
	cfg := enemy.DefaultConfig()
	if s.DetectionRange != 0 {
		cfg.DetectionRange = s.DetectionRange
	}
	if s.FieldOfView != 0 {
		cfg.FieldOfView = s.FieldOfView
	}
	if s.FireRate != 0 {
		cfg.FireRate = s.FireRate
	}
	if s.MaxHealth != 0 {
		cfg.MaxHealth = s.MaxHealth
	}
	return cfg
}

func LoadEnemySpec(name string) (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](name)
	if err != nil {
		return nil, err
	}
	if spec.MoveSpeed <= 0 {
		spec.MoveSpeed = 3.5
	}
	if spec.Radius <= 0 {
		spec.Radius = 0.5
	}
	return &spec, nil
}

type ArenaSpec struct {
	Name      string         `yaml:"name"`
	Grid      GridSpec       `yaml:"grid"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Start     PointSpec      `yaml:"start"`
	End       *PointSpec     `yaml:"end"`
	Cover     []PointSpec    `yaml:"cover"`
	Player    PlayerSpec     `yaml:"player"`
	Damage    []DamageSpec   `yaml:"damage"`
}

type GridSpec struct {
	Width    int       `yaml:"width"`
	Depth    int       `yaml:"depth"`
	CellSize float64   `yaml:"cell_size"`
	Origin   PointSpec `yaml:"origin"`
}

type ObstacleSpec struct {
	Name  string     `yaml:"name"`
	MinX  float64    `yaml:"min_x"`
	MinZ  float64    `yaml:"min_z"`
	MaxX  float64    `yaml:"max_x"`
	MaxZ  float64    `yaml:"max_z"`
	Color *YAMLColor `yaml:"color"`
}

type PlayerSpec struct {
	Speed  float64     `yaml:"speed"`
	Radius float64     `yaml:"radius"`
	Health int         `yaml:"health"`
	Route  []PointSpec `yaml:"route"`
	Loop   bool        `yaml:"loop"`
}

// DamageSpec schedules damage to the enemy at a simulated time, standing in
// for the player's weapon.
type DamageSpec struct {
	At     float64 `yaml:"at"`
	Amount int     `yaml:"amount"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (p PointSpec) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

func LoadArenaSpec(name string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Grid.Width <= 0 || spec.Grid.Depth <= 0 {
		return nil, fmt.Errorf("prefabs: %s: grid must have a positive size", name)
	}
	if spec.Grid.CellSize <= 0 {
		spec.Grid.CellSize = 1
	}
	if spec.Player.Radius <= 0 {
		spec.Player.Radius = 0.5
	}
	return &spec, nil
}

// YAMLColor decodes an SVG color name ("dimgray") or a hex color
// ("#rrggbb" or "#rrggbbaa").
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("prefabs: color: %w", err)
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		c.Color = named
		return nil
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || (len(raw) != 3 && len(raw) != 4) {
		return fmt.Errorf("prefabs: color %q: want a color name or #rrggbb[aa]", s)
	}
	rgba := color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	if len(raw) == 4 {
		rgba.A = raw[3]
	}
	c.Color = rgba
	return nil
}
