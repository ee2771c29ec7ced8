package config

import "sort"

type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]Preset{
	"field": {
		Description: "six robots and a ball seen from above, bodies only move when driven or hit",
		Apply:       func(*Config) {},
	},
	"drop": {
		Description: "earth gravity in the vertical plane, bodies fall freely",
		Apply: func(c *Config) {
			c.Sim.GravityX, c.Sim.GravityY = 0, -9.81
		},
	},
	"moon": {
		Description: "lunar gravity, slower fall",
		Apply: func(c *Config) {
			c.Sim.GravityY = -1.62
		},
	},
	"crowd": {
		Description: "eleven robots per row",
		Apply: func(c *Config) {
			c.Sim.Robots = 11
			c.World.RowGap = 0.05
		},
	},
	"fine": {
		Description: "small time step for accuracy checks",
		Apply: func(c *Config) {
			c.Sim.Dt = 1.0 / 240
			c.Sim.Steps = 2400
			c.Sim.RecordEvery = 4
		},
	},
	"teleop": {
		Description: "latest-value command mailbox and a 50 Hz worker",
		Apply: func(c *Config) {
			c.Actuator.Queue = "mailbox"
			c.Actuator.Rate = 50
		},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

// ApplyPreset applies the named preset on top of cfg.
func ApplyPreset(cfg *Config, name string) bool {
	p, ok := Presets[name]
	if ok {
		p.Apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
