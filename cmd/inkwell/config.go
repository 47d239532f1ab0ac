package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/avelichko/inkwell/internal/logger"
)

const (
	defaultListenAddr    = "localhost:8000"
	defaultLoggingLevel  = logger.LevelInfo
	defaultEnvironment   = logger.EnvProduction
	defaultAccessTTL     = 15 * time.Minute
	defaultRefreshTTL    = 7 * 24 * time.Hour
	defaultSweepInterval = time.Hour
	defaultRateLimitRPS  = 10.0
	defaultRateBurst     = 20
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secrets for signing access and refresh JWT payloads.
	// Both required and must differ from each other
	AccessSecret  string
	RefreshSecret string

	// Token lifetimes
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Emails allowed to register with the admin role
	AdminEmails []string

	// How often expired refresh tokens are purged from the ledger
	SweepInterval time.Duration

	// Per-client request rate limit
	RateLimitRPS   float64
	RateLimitBurst int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		ListenAddr:     defaultListenAddr,
		Environment:    defaultEnvironment,
		AccessTTL:      defaultAccessTTL,
		RefreshTTL:     defaultRefreshTTL,
		SweepInterval:  defaultSweepInterval,
		RateLimitRPS:   defaultRateLimitRPS,
		RateLimitBurst: defaultRateBurst,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}
	setFloat := func(o *float64) func(value string) {
		return func(value string) {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				*o = f
			}
		}
	}
	setInt := func(o *int) func(value string) {
		return func(value string) {
			if i, err := strconv.Atoi(value); err == nil {
				*o = i
			}
		}
	}
	setEmails := func(o *[]string) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			emails := make([]string, 0)
			for _, e := range strings.Split(value, ",") {
				if e = strings.TrimSpace(e); e != "" {
					emails = append(emails, e)
				}
			}
			*o = emails
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":           setString(&c.ListenAddr),
		"DATABASE_URI":          setString(&c.DatabaseDSN),
		"ACCESS_TOKEN_SECRET":   setString(&c.AccessSecret),
		"REFRESH_TOKEN_SECRET":  setString(&c.RefreshSecret),
		"ACCESS_TOKEN_TTL":      setDuration(&c.AccessTTL),
		"REFRESH_TOKEN_TTL":     setDuration(&c.RefreshTTL),
		"ADMIN_EMAIL_WHITELIST": setEmails(&c.AdminEmails),
		"TOKEN_SWEEP_INTERVAL":  setDuration(&c.SweepInterval),
		"RATE_LIMIT_RPS":        setFloat(&c.RateLimitRPS),
		"RATE_LIMIT_BURST":      setInt(&c.RateLimitBurst),
		"LOG_LEVEL":             setString(&c.LogLevel),
		"ENVIRONMENT":           setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("inkwell", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Access token signing secret")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Refresh token signing secret")
	fs.DurationVar(&c.AccessTTL, "access-ttl", c.AccessTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTTL, "refresh-ttl", c.RefreshTTL, "Refresh token lifetime")
	fs.StringSliceVar(&c.AdminEmails, "admin-emails", c.AdminEmails, "Emails allowed to register as admin")
	fs.DurationVar(&c.SweepInterval, "sweep-interval", c.SweepInterval, "Expired refresh token sweep interval")
	fs.Float64Var(&c.RateLimitRPS, "rate-limit-rps", c.RateLimitRPS, "Requests per second allowed per client")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", c.RateLimitBurst, "Request burst allowed per client")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (development, production)")

	return fs.Parse(args)
}
