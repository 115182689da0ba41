// config предоставляет структуру конфигурации recipe-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Поддерживаемые драйверы хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env"     env:"ENV"        env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Storage  StorageConfig  `yaml:"storage"`
	Provider ProviderConfig `yaml:"provider"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// GRPCConfig — сетевые настройки gRPC-сервера (health-check).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50053"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50083"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// Addr возвращает адрес в формате host:port.
func (g HTTPConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// StorageConfig — выбор и параметры хранилища.
type StorageConfig struct {
	// Driver — sqlite (встраиваемая БД, по умолчанию) или postgres.
	Driver      string `yaml:"driver"       env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite_path"  env:"SQLITE_PATH"    env-default:"recipes.db"`
	PostgresURL string `yaml:"postgres_url" env:"DATABASE_URL"`
}

// ProviderConfig — параметры удалённого провайдера рецептов.
type ProviderConfig struct {
	BaseURL      string        `yaml:"base_url"     env:"PROVIDER_BASE_URL" env-default:"https://api.spoonacular.com"`
	APIKey       string        `yaml:"api_key"      env:"PROVIDER_API_KEY" env-required:"true"`
	Diet         string        `yaml:"diet"         env:"PROVIDER_DIET"         env-default:"vegetarian,low-fat"`
	Intolerances string        `yaml:"intolerances" env:"PROVIDER_INTOLERANCES" env-default:"dairy"`
	// PageSize — верхняя граница числа рецептов на категорию.
	PageSize int           `yaml:"page_size" env:"PROVIDER_PAGE_SIZE" env-default:"5"`
	Timeout  time.Duration `yaml:"timeout"   env:"PROVIDER_TIMEOUT"   env-default:"15s"`
}

// RefreshConfig — параметры ревалидации кэша.
type RefreshConfig struct {
	// TTL — через сколько после последней попытки обновление снова считается нужным.
	TTL time.Duration `yaml:"ttl" env:"REFRESH_TTL" env-default:"336h"`
	// Concurrency — сколько категорий обновляются одновременно.
	Concurrency int `yaml:"concurrency" env:"REFRESH_CONCURRENCY" env-default:"4"`
	// CheckInterval — период повторной оценки ревалидации; 0 — только при старте.
	CheckInterval time.Duration `yaml:"check_interval" env:"REFRESH_CHECK_INTERVAL" env-default:"1h"`
	// StampPath — файл с меткой последней попытки. Пусто — метка хранится в таблице meta.
	StampPath string `yaml:"stamp_path" env:"REFRESH_STAMP_PATH"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Storage.Driver)
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.PageSize <= 0 || c.Provider.PageSize > 100 {
		return fmt.Errorf("provider.page_size must be in [1, 100]")
	}
	if c.Refresh.TTL <= 0 {
		return fmt.Errorf("refresh.ttl must be > 0")
	}
	if c.Refresh.Concurrency <= 0 {
		return fmt.Errorf("refresh.concurrency must be > 0")
	}
	if c.Refresh.CheckInterval != 0 && c.Refresh.CheckInterval < time.Minute {
		return fmt.Errorf("refresh.check_interval must be 0 or at least 1m")
	}
	return nil
}
