package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		BcryptCost       int
		SessionTTL       time.Duration
		SessionUpdateAge time.Duration
		CacheTTL         time.Duration
		CookieSecure     bool
		AutoSignIn       bool
	}
	RateLimit struct {
		AuthRequests int
		AuthWindow   time.Duration
		AuthBurst    int
	}
	Housekeeping struct {
		Interval time.Duration
	}
	Storage struct {
		Bucket     string
		KeyPrefix  string
		Region     string
		Endpoint   string
		PresignTTL time.Duration
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("TASKTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/tasks.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("auth.sessionttl", 7*24*time.Hour)
	v.SetDefault("auth.sessionupdateage", 24*time.Hour)
	v.SetDefault("auth.cachettl", 5*time.Minute)
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("auth.autosignin", true)
	v.SetDefault("ratelimit.authrequests", 10)
	v.SetDefault("ratelimit.authwindow", time.Minute)
	v.SetDefault("ratelimit.authburst", 5)
	v.SetDefault("housekeeping.interval", time.Hour)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "task-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.presignttl", 15*time.Minute)
	v.SetDefault("aws.profile", "")
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Auth.BcryptCost < bcrypt.DefaultCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcryptcost must be between %d and %d", bcrypt.DefaultCost, bcrypt.MaxCost))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.sessionttl must be positive"))
	}
	if c.Auth.SessionUpdateAge <= 0 {
		errs = append(errs, errors.New("auth.sessionupdateage must be positive"))
	}
	if c.Auth.CacheTTL <= 0 {
		errs = append(errs, errors.New("auth.cachettl must be positive"))
	} else if c.Auth.CacheTTL > c.Auth.SessionTTL {
		errs = append(errs, errors.New("auth.cachettl must not exceed auth.sessionttl"))
	}
	if c.RateLimit.AuthRequests <= 0 || c.RateLimit.AuthWindow <= 0 || c.RateLimit.AuthBurst <= 0 {
		errs = append(errs, errors.New("ratelimit settings must be positive"))
	}
	if c.Housekeeping.Interval <= 0 {
		errs = append(errs, errors.New("housekeeping.interval must be positive"))
	}
	if c.Storage.Bucket != "" && c.Storage.PresignTTL <= 0 {
		errs = append(errs, errors.New("storage.presignttl must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(strings.TrimPrefix(line[:idx], "export "))
		value := strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
