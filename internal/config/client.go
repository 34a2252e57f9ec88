package config

import (
	"flag"
	"time"
)

// ClientOptions holds the configuration values for the terminal client.
type ClientOptions struct {
	ServerURL         string   `json:"server_url" yaml:"server_url"`
	SessionFile       string   `json:"session_file" yaml:"session_file"`
	CacheFile         string   `json:"cache_file" yaml:"cache_file"`
	SoonThresholdDays int      `json:"soon_threshold_days" yaml:"soon_threshold_days"`
	PageSize          int      `json:"page_size" yaml:"page_size"`
	RefreshInterval   Duration `json:"refresh_interval" yaml:"refresh_interval"`
	Timeout           Duration `json:"timeout" yaml:"timeout"`
	LogLevel          string   `json:"log_level" yaml:"log_level"`
	ShowVersion       bool     `json:"-" yaml:"-"`
	Config            string   `json:"-" yaml:"-"`
}

// LoadDefaults populates o with development defaults.
func (o *ClientOptions) LoadDefaults() {
	o.ServerURL = "http://localhost:8080"
	o.SessionFile = "session.json"
	o.CacheFile = "storage.json"
	o.SoonThresholdDays = 7
	o.PageSize = 4
	o.RefreshInterval = Duration{30 * time.Second}
	o.Timeout = Duration{10 * time.Second}
	o.LogLevel = "warn"
	o.Config = "client.json"
}

func (o *ClientOptions) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ServerURL, "url", o.ServerURL, "server base URL")
	fs.StringVar(&o.SessionFile, "session", o.SessionFile, "path to session file")
	fs.StringVar(&o.CacheFile, "cache", o.CacheFile, "path to local cache file")
	fs.IntVar(&o.SoonThresholdDays, "soon", o.SoonThresholdDays, "expiring soon threshold in days")
	fs.IntVar(&o.PageSize, "page", o.PageSize, "items per page on the nearly expiry view")
	fs.DurationVar(&o.RefreshInterval.Duration, "refresh", o.RefreshInterval.Duration, "background refresh interval")
	fs.DurationVar(&o.Timeout.Duration, "timeout", o.Timeout.Duration, "HTTP request timeout")
	fs.StringVar(&o.LogLevel, "l", o.LogLevel, "log level")
	fs.BoolVar(&o.ShowVersion, "version", o.ShowVersion, "show build version and date")
	fs.StringVar(&o.Config, "config", o.Config, "path to config file")
	fs.StringVar(&o.Config, "c", o.Config, "path to config file (shorthand)")
}

func (o *ClientOptions) configPath() *string { return &o.Config }

func (o *ClientOptions) applyEnv() {
	envOr("FOODKEEPER_URL", &o.ServerURL)
	envOr("FOODKEEPER_SESSION", &o.SessionFile)
}

func (o *ClientOptions) validate() error {
	switch {
	case o.PageSize <= 0:
		return errInvalid("page_size", o.PageSize, "must be positive")
	case o.RefreshInterval.Duration <= 0:
		return errInvalid("refresh_interval", o.RefreshInterval.Duration, "must be positive")
	case o.Timeout.Duration < 0:
		return errInvalid("timeout", o.Timeout.Duration, "must not be negative")
	}
	return nil
}

// ParseClient builds ClientOptions from defaults, the config file, args and
// the environment.
func ParseClient(args []string) (*ClientOptions, error) {
	o := &ClientOptions{}
	o.LoadDefaults()
	if err := load("client", args, o); err != nil {
		return nil, err
	}
	return o, nil
}
