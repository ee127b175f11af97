// Package config loads run settings and galaxy parameters.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is loaded
// first if present).
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

// Environment variables.
const (
	EnvSeed       = "STARFIELD_SEED"
	EnvParallel   = "STARFIELD_PARALLEL"
	EnvLogLevel   = "STARFIELD_LOG_LEVEL"
	EnvLogJSON    = "STARFIELD_LOG_JSON"
	EnvConfigPath = "STARFIELD_CONFIG"
	EnvBulgeStars = "STARFIELD_BULGE_STARS"
	EnvBarStars   = "STARFIELD_BAR_STARS"
	EnvDiskStars  = "STARFIELD_DISK_STARS"
	EnvArmStars   = "STARFIELD_ARM_STARS"
	EnvHaloStars  = "STARFIELD_HALO_STARS"
)

// Settings is everything a run needs.
type Settings struct {
	Seed       uint64
	Parallel   bool
	LogLevel   string
	LogJSON    bool
	ConfigPath string
	Galaxy     galaxy.Config
}

// fileConfig is the YAML file layout: run options at the top level next to
// the component sections.
type fileConfig struct {
	Seed          *uint64 `yaml:"seed"`
	Parallel      *bool   `yaml:"parallel"`
	galaxy.Config `yaml:",inline"`
}

// Default returns settings with the reference galaxy and no file or env
// overrides applied.
func Default() *Settings {
	return &Settings{
		LogLevel: "info",
		Galaxy:   galaxy.DefaultConfig(),
	}
}

// Load builds settings from defaults, the YAML file at path (or
// STARFIELD_CONFIG when path is empty) and the environment.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.WrapConfig("config.Load", "read .env", err)
	}

	s := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := s.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) loadFile(path string) error {
	const op = "config.loadFile"

	f, err := os.Open(path)
	if err != nil {
		return errs.WrapConfig(op, "open "+path, err)
	}
	defer f.Close()

	fc := fileConfig{Config: s.Galaxy}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return errs.WrapConfig(op, "parse "+path, err)
	}

	s.ConfigPath = path
	s.Galaxy = fc.Config
	if fc.Seed != nil {
		s.Seed = *fc.Seed
	}
	if fc.Parallel != nil {
		s.Parallel = *fc.Parallel
	}
	return nil
}

func (s *Settings) applyEnv() error {
	var err error
	if s.Seed, err = getEnvAsUint(EnvSeed, s.Seed); err != nil {
		return err
	}
	if s.Parallel, err = getEnvAsBool(EnvParallel, s.Parallel); err != nil {
		return err
	}
	if s.LogJSON, err = getEnvAsBool(EnvLogJSON, s.LogJSON); err != nil {
		return err
	}
	s.LogLevel = getEnv(EnvLogLevel, s.LogLevel)

	counts := []struct {
		key string
		dst *int
	}{
		{EnvBulgeStars, &s.Galaxy.Bulge.Stars},
		{EnvBarStars, &s.Galaxy.Bar.Stars},
		{EnvDiskStars, &s.Galaxy.Disk.Stars},
		{EnvArmStars, &s.Galaxy.Arms.Stars},
		{EnvHaloStars, &s.Galaxy.Halo.Stars},
	}
	for _, c := range counts {
		if *c.dst, err = getEnvAsInt(c.key, *c.dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the run settings and the galaxy parameters.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errs.Configf("config.Validate", "unknown log level %q", s.LogLevel)
	}
	return s.Galaxy.Validate()
}

// Options returns the generator options for these settings.
func (s *Settings) Options() galaxy.Options {
	return galaxy.Options{Seed: s.Seed, Parallel: s.Parallel}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.WrapConfig("config.env", key, err)
	}
	return n, nil
}

func getEnvAsUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errs.WrapConfig("config.env", key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errs.WrapConfig("config.env", key, err)
	}
	return b, nil
}
