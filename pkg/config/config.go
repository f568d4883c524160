package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		CORS         bool          `yaml:"cors"`
		RateLimit    float64       `yaml:"rate_limit"`
		RateBurst    int           `yaml:"rate_burst"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
		Name      string `yaml:"name"`
	} `yaml:"database"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"rasanlu.yaml",
			"rasanlu.yml",
			filepath.Join(os.Getenv("HOME"), ".config/rasanlu/config.yaml"),
			"/etc/rasanlu/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Addr == "" {
		config.Server.Addr = "127.0.0.1:8088"
	}
	if config.Server.RateBurst == 0 {
		config.Server.RateBurst = 10
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 60 * time.Second
	}

	if config.Storage.Driver == "" {
		config.Storage.Driver = DriverFile
	}
	if config.Storage.Path == "" {
		config.Storage.Path = "rasa_nlu_data.json"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "rasa_nlu_data"
	}
	if config.Database.Name == "" {
		config.Database.Name = "default"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

func mergeWithEnv(config *Config) {
	if path := os.Getenv("RASA_NLU_DATA"); path != "" {
		config.Storage.Path = path
	}
	if addr := os.Getenv("RASA_NLU_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
