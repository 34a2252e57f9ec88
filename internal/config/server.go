package config

import (
	"flag"
	"time"
)

// ServerOptions holds the configuration values for the API server.
type ServerOptions struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address" yaml:"address"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`

	// JWTSecret signs session tokens. Override the default outside development.
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`

	// TokenTTL is how long an issued session token stays valid.
	TokenTTL Duration `json:"token_ttl" yaml:"token_ttl"`

	// SoonThresholdDays is the "expiring soon" window for the expiring-soon endpoint.
	SoonThresholdDays int `json:"soon_threshold_days" yaml:"soon_threshold_days"`

	// CleanupInterval is how often soft-deleted food items are purged.
	CleanupInterval Duration `json:"cleanup_interval" yaml:"cleanup_interval"`

	// Retention is how long soft-deleted food items are kept before purging.
	Retention Duration `json:"retention" yaml:"retention"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// TLSCertFile and TLSKeyFile switch the listener to HTTPS when both are set.
	TLSCertFile string `json:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile  string `json:"tls_key_file" yaml:"tls_key_file"`

	// Config is the path to the config file.
	Config string `json:"-" yaml:"-"`
}

// LoadDefaults populates o with development defaults.
func (o *ServerOptions) LoadDefaults() {
	o.Address = "localhost:8080"
	o.DatabaseDSN = ""
	o.JWTSecret = "secretKey"
	o.TokenTTL = Duration{24 * time.Hour}
	o.SoonThresholdDays = 7
	o.CleanupInterval = Duration{time.Hour}
	o.Retention = Duration{30 * 24 * time.Hour}
	o.LogLevel = "info"
	o.Config = "config.json"
}

func (o *ServerOptions) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.Address, "a", o.Address, "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", o.DatabaseDSN, "db address")
	fs.StringVar(&o.JWTSecret, "s", o.JWTSecret, "jwt signing secret")
	fs.DurationVar(&o.TokenTTL.Duration, "ttl", o.TokenTTL.Duration, "session token lifetime")
	fs.IntVar(&o.SoonThresholdDays, "soon", o.SoonThresholdDays, "expiring soon threshold in days")
	fs.DurationVar(&o.CleanupInterval.Duration, "cleanup", o.CleanupInterval.Duration, "soft-delete purge interval")
	fs.DurationVar(&o.Retention.Duration, "retention", o.Retention.Duration, "soft-deleted item retention")
	fs.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	fs.StringVar(&o.TLSCertFile, "tls-cert", o.TLSCertFile, "path to server TLS certificate")
	fs.StringVar(&o.TLSKeyFile, "tls-key", o.TLSKeyFile, "path to server TLS key")
	fs.StringVar(&o.Config, "config", o.Config, "path to config file")
	fs.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
}

func (o *ServerOptions) configPath() *string { return &o.Config }

func (o *ServerOptions) applyEnv() {
	envOr("SERVER_ADDRESS", &o.Address)
	envOr("DATABASE_DSN", &o.DatabaseDSN)
	envOr("JWT_SECRET", &o.JWTSecret)
	envOr("LOG_LEVEL", &o.LogLevel)
	envOr("TLS_CERT_FILE", &o.TLSCertFile)
	envOr("TLS_KEY_FILE", &o.TLSKeyFile)
}

// TLSEnabled reports whether both TLS files are configured.
func (o *ServerOptions) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}

func (o *ServerOptions) validate() error {
	switch {
	case o.TokenTTL.Duration <= 0:
		return errInvalid("token_ttl", o.TokenTTL.Duration, "must be positive")
	case o.CleanupInterval.Duration <= 0:
		return errInvalid("cleanup_interval", o.CleanupInterval.Duration, "must be positive")
	case o.Retention.Duration < 0:
		return errInvalid("retention", o.Retention.Duration, "must not be negative")
	case (o.TLSCertFile == "") != (o.TLSKeyFile == ""):
		return errInvalid("tls_cert_file/tls_key_file", o.TLSCertFile+"/"+o.TLSKeyFile, "must be set together")
	}
	return nil
}

// ParseServer builds ServerOptions from defaults, the config file, args and
// the environment.
func ParseServer(args []string) (*ServerOptions, error) {
	o := &ServerOptions{}
	o.LoadDefaults()
	if err := load("server", args, o); err != nil {
		return nil, err
	}
	return o, nil
}
