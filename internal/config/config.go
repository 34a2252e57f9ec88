// Package config provides functionality for managing configuration options
// for the server and client using defaults, a config file, command-line flags
// and environment variables, applied in that order.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration is a time.Duration read from config files as "90s", "1h" and so on.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
		return nil
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// loadFile overlays the file at path onto dst. A missing file is not an error.
// Files ending in .yaml or .yml are YAML, anything else is JSON.
func loadFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, dst)
	default:
		err = json.Unmarshal(data, dst)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

// options is implemented by ServerOptions and ClientOptions.
type options interface {
	bind(fs *flag.FlagSet)
	configPath() *string
	applyEnv()
	validate() error
}

// errInvalid reports an option value the binaries cannot run with.
func errInvalid(option string, value any, rule string) error {
	return fmt.Errorf("invalid config: %s=%v %s", option, value, rule)
}

// load fills opts from the config file, flags and environment. Explicit flags
// win over the file and environment variables win over both.
func load(name string, args []string, opts options) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		*opts.configPath() = configPath
	}
	if err := loadFile(*opts.configPath(), opts); err != nil {
		return err
	}

	fs = flag.NewFlagSet(name, flag.ContinueOnError)
	opts.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		*opts.configPath() = configPath
	}

	opts.applyEnv()
	return opts.validate()
}

func envOr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
