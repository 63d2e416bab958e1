package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings are the runtime knobs shared by the headless runner and the
// viewer.
type Settings struct {
	LogLevel    string        `mapstructure:"logLevel"`
	LogConsole  bool          `mapstructure:"logConsole"`
	TPS         int           `mapstructure:"tps"`
	Duration    time.Duration `mapstructure:"duration"`
	PrefabDir   string        `mapstructure:"prefabDir"`
	EnemyPrefab string        `mapstructure:"enemyPrefab"`
	ArenaPrefab string        `mapstructure:"arenaPrefab"`
	Watch       bool          `mapstructure:"watch"`
	Viewer      ViewerConfig  `mapstructure:"viewer"`
}

type ViewerConfig struct {
	Scale float64 `mapstructure:"scale"`
	Speed float64 `mapstructure:"speed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logConsole", true)
	v.SetDefault("tps", 60)
	v.SetDefault("duration", "45s")
	v.SetDefault("prefabDir", "prefabs")
	v.SetDefault("enemyPrefab", "enemy.yaml")
	v.SetDefault("arenaPrefab", "arena.yaml")
	v.SetDefault("watch", false)
	v.SetDefault("viewer.scale", 16.0)
	v.SetDefault("viewer.speed", 1.0)
}

// Load reads sentry.yaml from configDir when it exists, then applies
// SENTRY_* environment overrides (SENTRY_VIEWER_SCALE for viewer.scale).
// An empty configDir skips the file.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("sentry")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configDir != "" {
		v.SetConfigName("sentry")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if s.TPS <= 0 {
		return fmt.Errorf("config: tps must be positive, got %d", s.TPS)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %s", s.Duration)
	}
	if s.Viewer.Scale <= 0 {
		return fmt.Errorf("config: viewer.scale must be positive, got %v", s.Viewer.Scale)
	}
	return nil
}

// Tick is the fixed simulation step.
func (s Settings) Tick() float64 {
	return 1 / float64(s.TPS)
}
