package script

import (
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/enemy"
)

// DamageFunc receives the damage a shot deals to its target.
type DamageFunc func(s enemy.Shot, damage int)

// ShotScript runs a tengo script for every shot to decide its damage. The
// script sees the globals distance, time, shooter, target and base_damage
// and assigns the global damage. Shots resolving to zero or less deal
// nothing.
type ShotScript struct {
	mu         sync.Mutex
	name       string
	compiled   *tengo.Compiled
	baseDamage int
	onDamage   DamageFunc
	logger     zerolog.Logger
}

// Compile builds a ShotScript from source. name is only used in errors and
// logs.
func Compile(name string, src []byte, baseDamage int, onDamage DamageFunc, logger zerolog.Logger) (*ShotScript, error) {
	s := tengo.NewScript(src)
	_ = s.Add("distance", 0.0)
	_ = s.Add("time", 0.0)
	_ = s.Add("shooter", 0)
	_ = s.Add("target", 0)
	_ = s.Add("base_damage", baseDamage)
	_ = s.Add("damage", 0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &ShotScript{
		name:       name,
		compiled:   compiled,
		baseDamage: baseDamage,
		onDamage:   onDamage,
		logger:     logger.With().Str("component", "script").Str("script", name).Logger(),
	}, nil
}

// Damage evaluates the script for one shot. Globals the script never
// references are compiled away, so only the defined ones are set. A script
// that never assigns damage deals the base damage.
func (s *ShotScript) Damage(shot enemy.Shot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars := []struct {
		name  string
		value any
	}{
		{"distance", shot.Distance},
		{"time", shot.Time},
		{"shooter", int64(shot.Shooter)},
		{"target", int64(shot.Target)},
		{"base_damage", s.baseDamage},
		{"damage", s.baseDamage},
	}
	for _, v := range vars {
		if !s.compiled.IsDefined(v.name) {
			continue
		}
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return 0, fmt.Errorf("script: %s: set %s: %w", s.name, v.name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("script: %s: run: %w", s.name, err)
	}
	if !s.compiled.IsDefined("damage") {
		return s.baseDamage, nil
	}
	return s.compiled.Get("damage").Int(), nil
}

// Fire implements enemy.FireHook.
func (s *ShotScript) Fire(shot enemy.Shot) {
	dmg, err := s.Damage(shot)
	if err != nil {
		s.logger.Error().Err(err).Msg("shot script failed")
		return
	}
	s.logger.Debug().
		Float64("distance", shot.Distance).
		Int("damage", dmg).
		Msg("shot resolved")
	if dmg <= 0 || s.onDamage == nil {
		return
	}
	s.onDamage(shot, dmg)
}
