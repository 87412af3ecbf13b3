package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type GRPC struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // virtual-court
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN               string `yaml:"dsn"`
	MaxConns          int32  `yaml:"maxConns"`
	MinConns          int32  `yaml:"minConns"`
	MaxConnLifetime   string `yaml:"maxConnLifetime"`   // напр. 30m
	MaxConnIdleTime   string `yaml:"maxConnIdleTime"`   // напр. 5m
	HealthCheckPeriod string `yaml:"healthCheckPeriod"` // напр. 1m
	ApplicationName   string `yaml:"applicationName"`
}

func (p Postgres) ConnLifetime() time.Duration { return parseDurationOr(0, p.MaxConnLifetime) }
func (p Postgres) ConnIdleTime() time.Duration { return parseDurationOr(0, p.MaxConnIdleTime) }
func (p Postgres) HealthPeriod() time.Duration { return parseDurationOr(0, p.HealthCheckPeriod) }

type Password struct {
	MinLength  int `yaml:"minLength"`
	BcryptCost int `yaml:"bcryptCost"`
}

type JWT struct {
	Secret    string `yaml:"secret"`    // обязательно
	Issuer    string `yaml:"issuer"`    // обязательно
	AccessTTL string `yaml:"accessTTL"` // напр. 15m
	ClockSkew string `yaml:"clockSkew"` // напр. 30s
}

func (j JWT) TTL() time.Duration  { return parseDurationOr(15*time.Minute, j.AccessTTL) }
func (j JWT) Skew() time.Duration { return parseDurationOr(30*time.Second, j.ClockSkew) }

type Security struct {
	Password Password `yaml:"password"`
	JWT      JWT      `yaml:"jwt"`
}

type Chat struct {
	MaxMessageLen int `yaml:"maxMessageLen"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Security Security `yaml:"security"`
	Chat     Chat     `yaml:"chat"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.GRPC.Addr == "" {
		return errors.New("grpc.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Security.JWT.Secret == "" {
		return errors.New("security.jwt.secret is required")
	}
	if c.Security.JWT.Skew() > time.Minute {
		return errors.New("security.jwt.clockSkew must be in [0..1m]")
	}
	if c.Security.Password.BcryptCost != 0 && (c.Security.Password.BcryptCost < 4 || c.Security.Password.BcryptCost > 18) {
		return errors.New("security.password.bcryptCost must be in [4..18]")
	}
	// дефолты
	if c.Security.JWT.Issuer == "" {
		c.Security.JWT.Issuer = "virtual-court"
	}
	if c.Security.Password.MinLength == 0 {
		c.Security.Password.MinLength = 6
	}
	if c.Chat.MaxMessageLen == 0 {
		c.Chat.MaxMessageLen = 4000
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "virtual-court"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	return nil
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
