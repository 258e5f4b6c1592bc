package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Chute.Capacity != 5 {
		t.Fatalf("capacity = %d, want 5", cfg.Chute.Capacity)
	}
	if cfg.Hover.Radius != 20 || cfg.Hover.Interval() != 100*time.Millisecond {
		t.Fatalf("hover defaults = %+v", cfg.Hover)
	}
	if cfg.Boundary.ResizeEpsilon != 0.5 {
		t.Fatalf("resize epsilon = %v", cfg.Boundary.ResizeEpsilon)
	}
	if len(cfg.Ball.Palette) == 0 {
		t.Fatalf("palette is empty")
	}
	if cfg.Ball.Palette[0].NRGBA != (color.NRGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}) {
		t.Fatalf("palette[0] = %+v", cfg.Ball.Palette[0])
	}
}

func TestLoadOverride(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "partial_override_keeps_defaults",
			body: "chute:\n  capacity: 3\nhover:\n  radius: 35\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Chute.Capacity != 3 || cfg.Hover.Radius != 35 {
					t.Fatalf("override not applied: %+v %+v", cfg.Chute, cfg.Hover)
				}
				if cfg.Chute.ExitX != 0.9 || cfg.Hover.IntervalMS != 100 {
					t.Fatalf("defaults lost: %+v %+v", cfg.Chute, cfg.Hover)
				}
				if len(cfg.Ball.Palette) != len(Default().Ball.Palette) {
					t.Fatalf("palette should survive an override without one")
				}
			},
		},
		{
			name: "palette_replaced",
			body: "ball:\n  palette: [\"rgb(0, 128, 255)\"]\n",
			check: func(t *testing.T, cfg *Config) {
				if len(cfg.Ball.Palette) != 1 || cfg.Ball.Palette[0].B != 255 || cfg.Ball.Palette[0].G != 128 {
					t.Fatalf("palette = %+v", cfg.Ball.Palette)
				}
			},
		},
		{name: "bad_color", body: "ball:\n  palette: [\"not-a-color\"]\n", wantErr: true},
		{name: "invalid_drain", body: "drain:\n  radius: 90\n  shrink_zone: 80\n", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(c.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			cfg, err := Load(path)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			c.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
