package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	Auth  AuthConfig
	Redis RedisConfig
	DB    DBConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type AuthConfig struct {
	// PublicKeyFile points at the issuer's PEM-encoded verification key.
	// PublicKeyPEM may carry the PEM inline instead; the file wins when
	// both are set.
	PublicKeyFile string
	PublicKeyPEM  string

	// AllowedAlgorithms is the "alg" allow-list. Default: RS256.
	AllowedAlgorithms []string

	// ClockSkew tolerates issuer/verifier clock drift. Default: zero.
	ClockSkew time.Duration

	// Issuer and Audience pin the corresponding registered claims when set.
	Issuer   string
	Audience string

	// RevocationTTL bounds how long a revoked session stays on the
	// deny-list. Must cover the longest token TTL the issuer mints.
	RevocationTTL time.Duration
}

// RedisConfig enables the session revocation deny-list when Host is set.
type RedisConfig struct {
	Host string
	Port int
}

// DBConfig enables the Postgres audit repository when Host is set.
// Without it, audit events stay in process memory.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Auth.PublicKeyFile = strings.TrimSpace(os.Getenv("JWT_PUBLIC_KEY_FILE"))
	c.Auth.PublicKeyPEM = os.Getenv("JWT_PUBLIC_KEY")
	c.Auth.AllowedAlgorithms = splitList(os.Getenv("JWT_ALGS"))
	c.Auth.ClockSkew = optionalDuration("JWT_CLOCK_SKEW")
	c.Auth.Issuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.Audience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.RevocationTTL = optionalDuration("SESSION_REVOCATION_TTL")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.DB.Host != "" {
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Auth.PublicKeyFile == "" && strings.TrimSpace(c.Auth.PublicKeyPEM) == "" {
		errs = append(errs, errors.New("JWT_PUBLIC_KEY_FILE or JWT_PUBLIC_KEY is required"))
	}
	if len(c.Auth.AllowedAlgorithms) == 0 {
		c.Auth.AllowedAlgorithms = []string{"RS256"}
	}
	for _, alg := range c.Auth.AllowedAlgorithms {
		if strings.EqualFold(alg, "none") {
			errs = append(errs, errors.New("JWT_ALGS must not include unsigned algorithms"))
		}
	}
	if c.Auth.ClockSkew < 0 {
		errs = append(errs, errors.New("JWT_CLOCK_SKEW must not be negative"))
	}
	if c.Auth.RevocationTTL <= 0 {
		// Covers any reasonable access token TTL.
		c.Auth.RevocationTTL = 24 * time.Hour
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}
	if c.IsProduction() && c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required in production (session revocation)"))
	}

	if c.DB.Host != "" {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				// Local-friendly default; production must be explicit.
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// HasPostgres reports whether the audit trail should persist to Postgres.
func (c Config) HasPostgres() bool { return c.DB.Host != "" }

// HasRedis reports whether session revocation is enabled.
func (c Config) HasRedis() bool { return c.Redis.Host != "" }

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
