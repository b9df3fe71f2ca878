// Package config loads runtime options from flags, PADSTATE_* environment
// variables and an optional padstate.{yaml,toml,json} file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/runner"
	"github.com/soar/padstate/internal/source"
)

const (
	EnvPrefix  = "PADSTATE"
	configName = "padstate"
)

// Keys, shared by flags, environment and file.
const (
	KeyAddr         = "addr"
	KeySource       = "source"
	KeyPollingRate  = "polling-rate"
	KeyDeadZone     = "dead-zone"
	KeyCapacity     = "capacity"
	KeyFrameRate    = "frame-rate"
	KeyRecord       = "record"
	KeyStatsview    = "statsview"
	KeyRescanAlways = "rescan-always"
	KeyConfig       = "config"
)

var (
	ErrInvalid = errors.New("invalid configuration")
	ErrHelp    = pflag.ErrHelp
)

type Config struct {
	Addr         string
	Source       string
	PollingRate  time.Duration
	DeadZone     float64
	Capacity     int
	FrameRate    int
	Record       string // parquet path, empty disables recording
	Statsview    string // dashboard address, empty disables it
	RescanAlways bool

	// File is the config file that was read, if any.
	File string
}

// Load parses args and merges every configuration layer. The returned viper
// instance keeps watching the config file when one was found.
func Load(args []string) (*Config, *viper.Viper, error) {
	fs := pflag.NewFlagSet("padstate", pflag.ContinueOnError)
	fs.String(KeyAddr, ":8080", "HTTP listen address")
	fs.String(KeySource, source.KindSDL, "controller source: sdl, joydev, xinput or glfw")
	fs.Duration(KeyPollingRate, gamepad.DefaultPollingRate, "minimum time between polls")
	fs.Float64(KeyDeadZone, gamepad.DefaultDeadZone, "radial stick dead zone in [0,1)")
	fs.Int(KeyCapacity, gamepad.DefaultCapacity, "number of logical pads")
	fs.Int(KeyFrameRate, runner.DefaultFrameRate, "frames per second of the host loop")
	fs.String(KeyRecord, "", "record transitions to this parquet file")
	fs.String(KeyStatsview, "", "serve the runtime statistics dashboard on this address")
	fs.Bool(KeyRescanAlways, false, "rebind pads on every poll")
	fs.String(KeyConfig, "", "config file (default: ./padstate.{yaml,toml,json})")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, nil, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicit := v.GetString(KeyConfig)
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// FromViper reads a Config out of v without validating it.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Addr:         v.GetString(KeyAddr),
		Source:       strings.ToLower(v.GetString(KeySource)),
		PollingRate:  v.GetDuration(KeyPollingRate),
		DeadZone:     v.GetFloat64(KeyDeadZone),
		Capacity:     v.GetInt(KeyCapacity),
		FrameRate:    v.GetInt(KeyFrameRate),
		Record:       v.GetString(KeyRecord),
		Statsview:    v.GetString(KeyStatsview),
		RescanAlways: v.GetBool(KeyRescanAlways),
		File:         v.ConfigFileUsed(),
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyAddr)
	case c.PollingRate < 0:
		return fmt.Errorf("%w: %s %v is negative", ErrInvalid, KeyPollingRate, c.PollingRate)
	case c.DeadZone < 0 || c.DeadZone >= 1:
		return fmt.Errorf("%w: %s %v: %w", ErrInvalid, KeyDeadZone, c.DeadZone, gamepad.ErrInvalidDeadZone)
	case c.Capacity < 1:
		return fmt.Errorf("%w: %s %d: %w", ErrInvalid, KeyCapacity, c.Capacity, gamepad.ErrInvalidCapacity)
	case c.FrameRate < 1:
		return fmt.Errorf("%w: %s %d must be positive", ErrInvalid, KeyFrameRate, c.FrameRate)
	}

	switch c.Source {
	case source.KindSDL, source.KindJoydev, source.KindXInput, source.KindGLFW:
	default:
		return fmt.Errorf("%w: %s %q: %w", ErrInvalid, KeySource, c.Source, source.ErrUnknownSource)
	}
	return nil
}

// Settings returns the runtime settings map accepted by the pad pool.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		gamepad.KeyPollingRate: c.PollingRate.Milliseconds(),
		gamepad.KeyDeadZone:    c.DeadZone,
	}
}
