package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultSourceURL = "https://demo.thewaittimes.com/WaitTime/api/waittimegetsensor"

type Config struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"prod"`
	HTTP   HTTPConfig   `yaml:"http"`
	Source SourceConfig `yaml:"source"`
	Page   PageConfig   `yaml:"page"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"PORT" env-default:"8050"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
}

// Address returns the listen address in host:port form.
func (c HTTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type SourceConfig struct {
	URL string `yaml:"url" env:"SENSOR_API_URL" env-default:"https://demo.thewaittimes.com/WaitTime/api/waittimegetsensor"`
	// Zero disables the client timeout.
	Timeout time.Duration `yaml:"timeout" env:"SENSOR_API_TIMEOUT" env-default:"0s"`
}

type PageConfig struct {
	Title     string        `yaml:"title" env-default:"POC: Real-time Crowd Intelligence"`
	LeftLogo  string        `yaml:"left_logo" env-default:"/assets/amsys_logo.png"`
	RightLogo string        `yaml:"right_logo" env-default:"/assets/royal_commission.jpeg"`
	AssetsDir string        `yaml:"assets_dir" env:"ASSETS_DIR" env-default:"assets"`
	Alerts    []AlertConfig `yaml:"alerts"`
}

type AlertConfig struct {
	Message string `yaml:"message"`
	Color   string `yaml:"color"`
}

type StoreConfig struct {
	Enabled bool          `yaml:"enabled" env:"STORE_ENABLED" env-default:"false"`
	Path    string        `yaml:"path" env:"STORE_PATH" env-default:"/var/lib/crowdwatch/snapshots.db"`
	MaxAge  time.Duration `yaml:"max_age" env-default:"720h"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// DefaultAlerts is the banner list shown under every chart when the config
// file does not provide one.
func DefaultAlerts() []AlertConfig {
	return []AlertConfig{
		{Message: "Alert 1: Sample alert message", Color: "warning"},
		{Message: "Alert 2: Another alert message", Color: "danger"},
		{Message: "Alert 3: Yet another alert message", Color: "info"},
	}
}

// Load reads the config file at configPath (falling back to CONFIG_PATH) with
// environment overrides. With no path at all, only the environment is read.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if len(cfg.Page.Alerts) == 0 {
		cfg.Page.Alerts = DefaultAlerts()
	}

	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
