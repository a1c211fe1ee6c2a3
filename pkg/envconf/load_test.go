package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nested struct {
	DSN     string        `env:"TEST_DSN"`
	Timeout time.Duration `env:"TEST_TIMEOUT" envDefault:"3s"`
}

type sample struct {
	Port     uint16     `env:"TEST_PORT" envDefault:"8080"`
	Level    slog.Level `env:"TEST_LEVEL" envDefault:"INFO"`
	Origins  []string   `env:"TEST_ORIGINS" envDefault:"" envSeparator:","`
	Optional string     `env:"TEST_OPTIONAL" envDefault:""`
	DB       nested
}

func TestLoadFrom_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	var cfg sample

	err := LoadFrom(&cfg, map[string]string{
		"TEST_DSN":     "postgres://x",
		"TEST_LEVEL":   "DEBUG",
		"TEST_ORIGINS": "https://a.example,https://b.example",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("port default: want 8080, got %d", cfg.Port)
	}

	if cfg.Level != slog.LevelDebug {
		t.Fatalf("level: want DEBUG, got %v", cfg.Level)
	}

	if len(cfg.Origins) != 2 || cfg.Origins[1] != "https://b.example" {
		t.Fatalf("origins: got %v", cfg.Origins)
	}

	if cfg.DB.DSN != "postgres://x" || cfg.DB.Timeout != 3*time.Second {
		t.Fatalf("nested: got %+v", cfg.DB)
	}
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	t.Parallel()

	var cfg sample

	err := LoadFrom(&cfg, map[string]string{"TEST_LEVEL": "INFO"})
	if err == nil {
		t.Fatal("expected error for missing TEST_DSN")
	}
}

func TestLoadFrom_InvalidValue(t *testing.T) {
	t.Parallel()

	var cfg sample

	err := LoadFrom(&cfg, map[string]string{"TEST_DSN": "x", "TEST_PORT": "not-a-port"})
	if err == nil {
		t.Fatal("expected parse error for TEST_PORT")
	}
}

func TestLoadFrom_InvalidDestination(t *testing.T) {
	t.Parallel()

	var cfg sample

	for _, dst := range []any{nil, cfg, new(int), (*sample)(nil)} {
		err := LoadFrom(dst, map[string]string{})
		if !errors.Is(err, ErrInvalidDestination) {
			t.Fatalf("dst %T: want ErrInvalidDestination, got %v", dst, err)
		}
	}
}
