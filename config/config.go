package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	mu     sync.Mutex
	v      = viper.New()
)

// Config represents the application configuration.
type Config struct {
	AppName string
	RunMode string
	Host    string
	Port    int
	Logger  *Logger
	Data    *Data
	Viper   *viper.Viper
}

// IsProd reports whether the application runs in release mode.
func (c *Config) IsProd() bool {
	return c.RunMode == "release" || c.RunMode == "prod"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads the configuration from the file.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/gatherly")
		v.AddConfigPath("$HOME/.gatherly")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName: v.GetString("app_name"),
		RunMode: v.GetString("run_mode"),
		Host:    v.GetString("server.host"),
		Port:    v.GetInt("server.port"),
		Logger:  getLoggerConfig(v),
		Data:    getDataConfig(v),
		Viper:   v,
	}

	mu.Lock()
	config = cfg
	mu.Unlock()

	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	return config, nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := LoadConfig(v.ConfigFileUsed())
		if err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
			return
		}
		callback(cfg)
	})
}
