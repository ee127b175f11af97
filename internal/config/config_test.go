package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := galaxy.DefaultConfig()
	if s.Galaxy.Bulge != want.Bulge || s.Galaxy.Halo != want.Halo {
		t.Error("defaults should match galaxy.DefaultConfig")
	}
	if s.Seed != 0 || s.Parallel || s.LogLevel != "info" {
		t.Errorf("run settings = %+v", s)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "galaxy.yaml", `
seed: 1234
parallel: true
bulge:
  stars: 500
  radius: 600
arms:
  secondary_arms: 12
  secondary_allocation:
    mode: even
placement:
  orient: true
  offset: [100, 200, 300]
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if s.Seed != 1234 || !s.Parallel {
		t.Errorf("Seed = %d, Parallel = %v", s.Seed, s.Parallel)
	}
	if s.Galaxy.Bulge.Stars != 500 || s.Galaxy.Bulge.Radius != 600 {
		t.Errorf("bulge = %+v", s.Galaxy.Bulge)
	}
	// Fields absent from the file keep their defaults.
	if s.Galaxy.Bulge.TempMean != 3000 || s.Galaxy.Disk.Stars != 15000 {
		t.Error("unset fields should keep defaults")
	}
	if s.Galaxy.Arms.SecondaryArms != 12 || s.Galaxy.Arms.SecondaryAllocation.Mode != galaxy.AllocateEven {
		t.Errorf("arms = %+v", s.Galaxy.Arms)
	}
	if !s.Galaxy.Placement.Orient || s.Galaxy.Placement.Offset != [3]float64{100, 200, 300} {
		t.Errorf("placement = %+v", s.Galaxy.Placement)
	}
	if s.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", s.ConfigPath, path)
	}
}

func TestLoad_FileFromEnv(t *testing.T) {
	path := writeFile(t, "galaxy.yaml", "halo:\n  stars: 42\n")
	t.Setenv(EnvConfigPath, path)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Galaxy.Halo.Stars != 42 {
		t.Errorf("halo stars = %d, want 42", s.Galaxy.Halo.Stars)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Galaxy.Bar.Stars != 5000 {
		t.Errorf("bar stars = %d, want default", s.Galaxy.Bar.Stars)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvParallel, "true")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogJSON, "1")
	t.Setenv(EnvDiskStars, "700")
	t.Setenv(EnvHaloStars, "0")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Seed != 99 || !s.Parallel || !s.LogJSON || s.LogLevel != "debug" {
		t.Errorf("run settings = %+v", s)
	}
	if s.Galaxy.Disk.Stars != 700 || s.Galaxy.Halo.Stars != 0 {
		t.Errorf("counts = disk %d, halo %d", s.Galaxy.Disk.Stars, s.Galaxy.Halo.Stars)
	}

	opts := s.Options()
	if opts.Seed != 99 || !opts.Parallel {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad seed", env: map[string]string{EnvSeed: "abc"}},
		{name: "negative seed", env: map[string]string{EnvSeed: "-5"}},
		{name: "bad bool", env: map[string]string{EnvParallel: "maybe"}},
		{name: "bad count", env: map[string]string{EnvBarStars: "many"}},
		{name: "negative count", env: map[string]string{EnvBulgeStars: "-1"}},
		{name: "bad level", env: map[string]string{EnvLogLevel: "loud"}},
		{name: "unknown field", file: "bulge:\n  radius: 10\n  colour: red\n"},
		{name: "bad yaml", file: "bulge: [\n"},
		{name: "invalid parameter", file: "disk:\n  thin_fraction: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "galaxy.yaml", tt.file)
			}
			if _, err := Load(path); !errs.IsConfig(err) {
				t.Errorf("Load error = %v, want config error", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errs.IsConfig(err) {
		t.Errorf("Load error = %v, want config error", err)
	}
}
