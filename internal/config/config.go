package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":4001"
	defaultMaxIdleConns    = 35
	defaultTokenTTL        = 8 * time.Hour
	defaultLockTTL         = 10 * time.Second
	defaultOverdueInterval = time.Hour
	defaultS3Region        = "us-east-1"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		LockTTL  time.Duration `yaml:"lock_ttl"`
	} `yaml:"redis"`
	FCM struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"fcm"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"s3"`
	Workers struct {
		OverdueInterval time.Duration `yaml:"overdue_interval"`
	} `yaml:"workers"`
}

// LoadConfig reads the YAML file at path, then applies environment overrides
// and defaults. A missing file is not an error; everything can come from the
// environment.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.FCM.CredentialsFile, "FCM_CREDENTIALS")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Bucket, "S3_BUCKET")
	setString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "S3_SECRET_KEY")
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Address = ":" + strings.TrimPrefix(port, ":")
	}

	if v, err := readIntEnv("DB_MAX_IDLE_CONNS"); err != nil {
		return fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	} else if v != nil {
		c.Database.MaxIdleConns = *v
	}
	if v, err := readDurationEnv("TOKEN_TTL"); err != nil {
		return fmt.Errorf("parse TOKEN_TTL: %w", err)
	} else if v != nil {
		c.Auth.TokenTTL = *v
	}
	if v, err := readDurationEnv("LOCK_TTL"); err != nil {
		return fmt.Errorf("parse LOCK_TTL: %w", err)
	} else if v != nil {
		c.Redis.LockTTL = *v
	}
	if v, err := readDurationEnv("OVERDUE_INTERVAL"); err != nil {
		return fmt.Errorf("parse OVERDUE_INTERVAL: %w", err)
	} else if v != nil {
		c.Workers.OverdueInterval = *v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = defaultLockTTL
	}
	if c.Workers.OverdueInterval == 0 {
		c.Workers.OverdueInterval = defaultOverdueInterval
	}
	if c.S3.Region == "" {
		c.S3.Region = defaultS3Region
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.Auth.TokenTTL < 0 || c.Redis.LockTTL < 0 || c.Workers.OverdueInterval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("connection limits must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readDurationEnv(name string) (*time.Duration, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := time.ParseDuration(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
