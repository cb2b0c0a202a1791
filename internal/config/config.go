package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	SpaceService   SpaceServiceConfig   `toml:"space_service"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway"`
	Checkout       CheckoutConfig       `toml:"checkout"`
	Admin          AdminConfig          `toml:"admin"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SpaceServiceConfig настройки клиента каталога пространств
type SpaceServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// PaymentGatewayConfig настройки клиента платёжного шлюза
type PaymentGatewayConfig struct {
	URL       string `toml:"url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Timeout   int    `toml:"timeout"` // секунды
}

// CheckoutConfig бизнес-настройки чекаута
type CheckoutConfig struct {
	// PendingTTLMinutes время жизни неоплаченного чекаута до перевода в expired
	PendingTTLMinutes int `toml:"pending_ttl_minutes"`
	// SweepIntervalMinutes интервал фоновой очистки просроченных чекаутов
	SweepIntervalMinutes int `toml:"sweep_interval_minutes"`
	// MinBillableHours минимальная оплачиваемая длительность почасового бронирования
	MinBillableHours float64 `toml:"min_billable_hours"`
	// Currency валюта расчётов (ISO 4217)
	Currency string `toml:"currency"`
}

// AdminConfig платформенные администраторы (управление налоговыми правилами)
type AdminConfig struct {
	UserIDs []int64 `toml:"user_ids"`
}

// IsAdmin возвращает true, если пользователь является платформенным администратором
func (c *AdminConfig) IsAdmin(userID int64) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Load загружает конфигурацию из TOML файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "cws-booking-service"
	}
	if cfg.Checkout.PendingTTLMinutes == 0 {
		cfg.Checkout.PendingTTLMinutes = 30
	}
	if cfg.Checkout.SweepIntervalMinutes == 0 {
		cfg.Checkout.SweepIntervalMinutes = 5
	}
	if cfg.Checkout.MinBillableHours == 0 {
		cfg.Checkout.MinBillableHours = 1.0
	}
	if cfg.Checkout.Currency == "" {
		cfg.Checkout.Currency = "INR"
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.SpaceService.URL == "" {
		return fmt.Errorf("config: space_service.url is required")
	}
	if cfg.PaymentGateway.URL == "" {
		return fmt.Errorf("config: payment_gateway.url is required")
	}
	if cfg.PaymentGateway.KeyID == "" || cfg.PaymentGateway.KeySecret == "" {
		return fmt.Errorf("config: payment_gateway credentials are required")
	}
	return nil
}
