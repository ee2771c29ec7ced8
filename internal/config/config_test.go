package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/world"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Device.Baud != 115200 {
		t.Errorf("expected baud 115200, got %d", cfg.Device.Baud)
	}
	if cfg.Device.ReadTimeout != 10*time.Millisecond {
		t.Errorf("expected 10ms read timeout, got %v", cfg.Device.ReadTimeout)
	}
	if cfg.Actuator.Rate != 20 {
		t.Errorf("expected 20 Hz, got %v", cfg.Actuator.Rate)
	}
	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestDefaultSceneStaysOnField(t *testing.T) {
	cfg := DefaultConfig()
	if g := cfg.Gravity(); g != (world.Vec{}) {
		t.Errorf("expected zero default gravity, got %+v", g)
	}

	w := world.Build(cfg.Scene())
	before := w.Snapshot()
	for i := 0; i < 120; i++ {
		w.Step(cfg.Gravity(), world.StepParams{Dt: cfg.Sim.Dt})
	}
	after := w.Snapshot()

	for i, b := range after.Bodies {
		if b.X != before.Bodies[i].X || b.Y != before.Bodies[i].Y {
			t.Errorf("body %d moved from (%f, %f) to (%f, %f)",
				b.Handle, before.Bodies[i].X, before.Bodies[i].Y, b.X, b.Y)
		}
	}
}

func TestDropPresetFalls(t *testing.T) {
	cfg := GetPreset("drop")
	if cfg == nil {
		t.Fatal("expected drop preset")
	}
	if cfg.Sim.GravityY != -9.81 {
		t.Errorf("expected gravity -9.81, got %f", cfg.Sim.GravityY)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero baud", func(c *Config) { c.Device.Baud = 0 }},
		{"negative timeout", func(c *Config) { c.Device.ReadTimeout = -time.Second }},
		{"zero rate", func(c *Config) { c.Actuator.Rate = 0 }},
		{"unknown queue", func(c *Config) { c.Actuator.Queue = "lifo" }},
		{"zero dt", func(c *Config) { c.Sim.Dt = 0 }},
		{"negative steps", func(c *Config) { c.Sim.Steps = -1 }},
		{"negative sim rate", func(c *Config) { c.Sim.Rate = -1 }},
		{"negative robots", func(c *Config) { c.Sim.Robots = -2 }},
		{"zero radius", func(c *Config) { c.World.BallRadius = 0 }},
		{"zero mass", func(c *Config) { c.World.RobotMass = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botlink.yaml")
	data := []byte(`
device:
  port: /dev/ttyACM0
  read_timeout: 25ms
actuator:
  queue: mailbox
sim:
  robots: 3
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Device.Port != "/dev/ttyACM0" || cfg.Device.ReadTimeout != 25*time.Millisecond {
		t.Errorf("unexpected device section %+v", cfg.Device)
	}
	if cfg.Device.Baud != 115200 {
		t.Errorf("expected default baud to survive, got %d", cfg.Device.Baud)
	}
	if cfg.Actuator.Queue != "mailbox" || cfg.Actuator.Rate != 20 {
		t.Errorf("unexpected actuator section %+v", cfg.Actuator)
	}
	if cfg.Sim.Robots != 3 || cfg.Sim.Dt != DefaultDt {
		t.Errorf("unexpected sim section %+v", cfg.Sim)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botlink.yaml")

	cfg := GetPreset("moon")
	cfg.Device.Port = "sim"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("moon")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Sim.GravityY != -1.62 {
		t.Errorf("expected gravity -1.62, got %f", cfg.Sim.GravityY)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] >= presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestDerivedConfigs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.Port = "COM3"

	ac := cfg.ActuatorConfig()
	if ac.Port != "COM3" || ac.Rate != 20 || !ac.SafeStopOnExit {
		t.Errorf("unexpected actuator config %+v", ac)
	}

	sc := cfg.StepperConfig()
	if sc.Gravity.Y != DefaultGravity || sc.Dt != DefaultDt {
		t.Errorf("unexpected stepper config %+v", sc)
	}

	if scene := cfg.Scene(); scene.Robots != DefaultRobots {
		t.Errorf("expected %d robots, got %d", DefaultRobots, scene.Robots)
	}
}
