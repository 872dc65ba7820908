// Package config loads the service configuration from the environment,
// with struct-tag defaults for everything that has a sane one.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
)

type Config struct {
	HTTPAddr      string `default:":8080"`
	StorageDriver string `default:"memory"` // memory | redis | mysql
	RedisAddr     string `default:"localhost:6379"`
	MySQLDSN      string `default:"root:root@tcp(localhost:3306)/storefront?parseTime=true"`
	KeyPrefix     string `default:"sayur5_"`
	CatalogURL    string `default:""`

	FreeShippingMin int `default:"30000"`
	ShippingFee     int `default:"10000"`

	WhatsAppNumber string `default:"6281234567890"`

	// Bootstrap admin seeded into an empty directory. Leaving these unset
	// falls back to the historical default account, with a warning.
	AdminUser string
	AdminPIN  string
}

// Load builds a Config from defaults overridden by environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("apply defaults: %w", err)
	}

	envString(&cfg.HTTPAddr, "HTTP_ADDR")
	envString(&cfg.StorageDriver, "STORAGE_DRIVER")
	envString(&cfg.RedisAddr, "REDIS_ADDR")
	envString(&cfg.MySQLDSN, "MYSQL_DSN")
	envString(&cfg.KeyPrefix, "KEY_PREFIX")
	envString(&cfg.CatalogURL, "CATALOG_URL")
	envString(&cfg.WhatsAppNumber, "WHATSAPP_NUMBER")
	envString(&cfg.AdminUser, "ADMIN_USER")
	envString(&cfg.AdminPIN, "ADMIN_PIN")

	if err := envInt(&cfg.FreeShippingMin, "FREE_SHIPPING_MIN"); err != nil {
		return Config{}, err
	}
	if err := envInt(&cfg.ShippingFee, "SHIPPING_FEE"); err != nil {
		return Config{}, err
	}

	switch cfg.StorageDriver {
	case "memory", "redis", "mysql":
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}
