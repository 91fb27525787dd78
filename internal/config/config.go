// Package config содержит логику чтения конфигурации киоск-агента.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации киоск-агента.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	BackendAddress string        `env:"REWARDS_BACKEND_ADDRESS"`
	KioskPhone     string        `env:"KIOSK_PHONE"`
	StoreDir       string        `env:"STORE_DIR"`
	StaffSecret    string        `env:"STAFF_SECRET"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"1s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envBackendAddress := cfg.BackendAddress
	envKioskPhone := cfg.KioskPhone
	envStoreDir := cfg.StoreDir

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.BackendAddress, "r", "", "rewards backend address")
	flag.StringVar(&cfg.KioskPhone, "p", "", "default phone number of the kiosk account")
	flag.StringVar(&cfg.StoreDir, "s", "./data", "directory for the durable reward store")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envBackendAddress != "" {
		cfg.BackendAddress = envBackendAddress
	}
	if envKioskPhone != "" {
		cfg.KioskPhone = envKioskPhone
	}
	if envStoreDir != "" {
		cfg.StoreDir = envStoreDir
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = "./data"
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return cfg, nil
}
