package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for Pharos.
//
// The App section encodes the startup contract of the hosted application:
// these are conventions of the platform, not per-deployment knobs, and their
// defaults are the contract. They live in config so the two bootstrap phases
// read the same named constants instead of inline literals.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	App     AppConfig     `mapstructure:"app"`
	Builder BuilderConfig `mapstructure:"builder"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type AppConfig struct {
	// Port is the fixed TCP port the application process binds.
	Port int `mapstructure:"port"`
	// BindAddr is the interface the process binds on (all interfaces).
	BindAddr string `mapstructure:"bind_addr"`
	// EntryPoint is the module-qualified application object the server loads.
	EntryPoint string `mapstructure:"entry_point"`
	// WorkDir is the working directory of the source tree inside the image.
	WorkDir string `mapstructure:"work_dir"`
	// StartTimeout bounds how long a launched container may take to bind
	// its port before the launch is considered failed.
	StartTimeout time.Duration `mapstructure:"start_timeout"`
}

type BuilderConfig struct {
	// ManifestName is the dependency manifest filename expected in the
	// source tree root.
	ManifestName string `mapstructure:"manifest_name"`
	// BaseImage is the runtime base of generated images.
	BaseImage string `mapstructure:"base_image"`
	// IndexURL is the package repository queried during resolution.
	IndexURL string `mapstructure:"index_url"`
	// BuildTimeout bounds one whole image preparation.
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config from the optional YAML file at path, then overlays
// environment variables with the PHAROS_ prefix (e.g. PHAROS_SERVER_ADDR).
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PHAROS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port %d out of range", c.App.Port)
	}
	if !strings.Contains(c.App.EntryPoint, ":") {
		return fmt.Errorf("app.entry_point %q is not module:attribute", c.App.EntryPoint)
	}
	if c.Builder.ManifestName == "" {
		return fmt.Errorf("builder.manifest_name must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")

	v.SetDefault("app.port", 8000)
	v.SetDefault("app.bind_addr", "0.0.0.0")
	v.SetDefault("app.entry_point", "app.main:app")
	v.SetDefault("app.work_dir", "/app")
	v.SetDefault("app.start_timeout", 30*time.Second)

	v.SetDefault("builder.manifest_name", "requirements.txt")
	v.SetDefault("builder.base_image", "python:3.11-slim")
	v.SetDefault("builder.index_url", "https://pypi.org/pypi")
	v.SetDefault("builder.build_timeout", 10*time.Minute)

	v.SetDefault("log.level", "info")
}
