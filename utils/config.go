package utils

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds the server settings read from the YAML config file.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	Sqlite struct {
		Filename string `yaml:"filename"`
	} `yaml:"sqlite"`
	Auth struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`
	Sessions struct {
		TTLMinutes     int `yaml:"ttl_minutes"`
		CleanupSeconds int `yaml:"cleanup_seconds"`
	} `yaml:"sessions"`
}

// ParseFlags returns the config path and debug mode supplied on the command
// line.
func ParseFlags() (string, bool, error) {
	var configPath string
	var debugMode bool

	flag.StringVar(&configPath, "config", "./config.yml", "path to config file")
	flag.BoolVar(&debugMode, "debug", false, "run in debug mode")
	flag.Parse()

	if err := validateConfigPath(configPath); err != nil {
		return "", false, err
	}

	return configPath, debugMode, nil
}

func validateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a config file", path)
	}
	return nil
}

// NewConfig reads the YAML config at path. Missing optional values fall back
// to defaults; a .env file can supply the auth secret and database name.
func NewConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Auth.Secret == "" {
		config.Auth.Secret = os.Getenv("AUTH_SECRET")
	}
	if config.Sessions.TTLMinutes <= 0 {
		config.Sessions.TTLMinutes = 60
	}
	if config.Sessions.CleanupSeconds <= 0 {
		config.Sessions.CleanupSeconds = 300
	}

	return config, nil
}
