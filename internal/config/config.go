package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"errpage-service/internal/errorpage"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config represents application configuration
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Logger     LoggerConfig      `yaml:"logger"`
	App        AppConfig         `yaml:"app"`
	ErrorPages []ErrorPageConfig `yaml:"error_pages" validate:"dive"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// LoggerConfig represents logger configuration
type LoggerConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Encoding    string `yaml:"encoding" env:"LOG_ENCODING" validate:"oneof=json console"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// AppConfig describes where the app lives and how much it reveals.
type AppConfig struct {
	Name        string `yaml:"name" env:"APP_NAME" validate:"required"`
	Environment string `yaml:"environment" env:"APP_ENV" validate:"oneof=development staging production"`
	WorkDir     string `yaml:"work_dir" env:"APP_WORK_DIR" validate:"required"`
	PublicDir   string `yaml:"public_dir" env:"APP_PUBLIC_DIR" validate:"required"`
	ResourceDir string `yaml:"resource_dir" env:"APP_RESOURCE_DIR" validate:"required"`
}

// IsRelease reports whether internal error details must be hidden.
func (a AppConfig) IsRelease() bool {
	return a.Environment == EnvProduction
}

// ErrorPageConfig maps a status range to a file in the public or resource directory.
// Exactly one of Public/Resource and exactly one of Status/From/Through/Below must be set.
type ErrorPageConfig struct {
	Public   string `yaml:"public" validate:"required_without=Resource,excluded_with=Resource"`
	Resource string `yaml:"resource"`

	Status  *int `yaml:"status" validate:"omitnil,gte=0,lte=599"`
	From    *int `yaml:"from" validate:"omitnil,gte=0,lte=599"`
	Through *int `yaml:"through" validate:"omitnil,gte=0,lte=599"`
	Below   *int `yaml:"below" validate:"omitnil,gte=1,lte=600"`
}

// Rule converts the entry into an error page rule.
func (c ErrorPageConfig) Rule() (errorpage.Rule, error) {
	set := 0
	for _, p := range []*int{c.Status, c.From, c.Through, c.Below} {
		if p != nil {
			set++
		}
	}
	if set != 1 {
		return errorpage.Rule{}, fmt.Errorf("error page %q: exactly one of status, from, through, below is required", c.file())
	}

	public := c.Public != ""
	switch {
	case c.Status != nil && public:
		return errorpage.PublicForStatus(c.Public, *c.Status), nil
	case c.Status != nil:
		return errorpage.ResourceForStatus(c.Resource, *c.Status), nil
	case c.From != nil && public:
		return errorpage.PublicFromStatus(c.Public, *c.From), nil
	case c.From != nil:
		return errorpage.ResourceFromStatus(c.Resource, *c.From), nil
	case c.Through != nil && public:
		return errorpage.PublicThroughStatus(c.Public, *c.Through), nil
	case c.Through != nil:
		return errorpage.ResourceThroughStatus(c.Resource, *c.Through), nil
	case public:
		return errorpage.PublicBelowStatus(c.Public, *c.Below), nil
	default:
		return errorpage.ResourceBelowStatus(c.Resource, *c.Below), nil
	}
}

func (c ErrorPageConfig) file() string {
	if c.Public != "" {
		return c.Public
	}
	return c.Resource
}

// DefaultErrorPages is used when the config lists no error pages:
// Public/404.html for 404 and Resources/5xx.html for every 5xx.
func DefaultErrorPages() errorpage.Rules {
	return errorpage.NewRules(
		errorpage.PublicForStatus("404.html", http.StatusNotFound),
		errorpage.ResourceFromStatus("5xx.html", http.StatusInternalServerError),
	)
}

// ErrorPageRules returns the configured error page rules in match order.
func (c *Config) ErrorPageRules() (errorpage.Rules, error) {
	if len(c.ErrorPages) == 0 {
		return DefaultErrorPages(), nil
	}

	rules := make([]errorpage.Rule, 0, len(c.ErrorPages))
	for _, p := range c.ErrorPages {
		rule, err := p.Rule()
		if err != nil {
			return errorpage.Rules{}, err
		}
		rules = append(rules, rule)
	}
	return errorpage.NewRules(rules...), nil
}

// ErrorPageDirs returns the public and resource directories, relative to WorkDir.
func (c *Config) ErrorPageDirs() errorpage.Dirs {
	return errorpage.Dirs{Public: c.App.PublicDir, Resource: c.App.ResourceDir}
}

// Default returns the configuration used for missing keys.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level:    "info",
			Encoding: "json",
		},
		App: AppConfig{
			Name:        "errpage-service",
			Environment: EnvDevelopment,
			WorkDir:     ".",
			PublicDir:   errorpage.DefaultPublicDir,
			ResourceDir: errorpage.DefaultResourceDir,
		},
	}
}

// LoadConfig loads configuration from file.
// Variables from a .env file in the working directory are applied first;
// real environment variables win over both.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, section := range []any{&cfg.Server, &cfg.Logger, &cfg.App} {
		if err := env.Parse(section); err != nil {
			return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cfg.ErrorPageRules(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
