package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/botlink/internal/actuator"
	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/dynamo"
	"github.com/san-kum/botlink/internal/sim"
	"github.com/san-kum/botlink/internal/world"
)

const (
	DefaultDt      = 1.0 / 60
	DefaultSteps   = 600
	DefaultRobots  = 6
	DefaultGravity = 0.0
	DefaultAddr    = ":8080"
	DefaultDataDir = "runs"
)

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Actuator ActuatorConfig `yaml:"actuator"`
	Sim      SimConfig      `yaml:"sim"`
	World    world.Params   `yaml:"world"`
	Logging  LoggingConfig  `yaml:"logging"`
	Serve    ServeConfig    `yaml:"serve"`
	DataDir  string         `yaml:"data_dir"`
}

type DeviceConfig struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type ActuatorConfig struct {
	Rate     float64 `yaml:"rate"`
	Queue    string  `yaml:"queue"`
	SafeStop bool    `yaml:"safe_stop"`
}

type SimConfig struct {
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Rate        float64 `yaml:"rate"`
	Robots      int     `yaml:"robots"`
	GravityX    float64 `yaml:"gravity_x"`
	GravityY    float64 `yaml:"gravity_y"`
	RecordEvery int     `yaml:"record_every"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Baud:        device.DefaultBaud,
			ReadTimeout: device.DefaultReadTimeout,
		},
		Actuator: ActuatorConfig{
			Rate:     actuator.DefaultRate,
			Queue:    "fifo",
			SafeStop: true,
		},
		Sim: SimConfig{
			Dt:          DefaultDt,
			Steps:       DefaultSteps,
			Rate:        60,
			Robots:      DefaultRobots,
			GravityY:    DefaultGravity,
			RecordEvery: 1,
		},
		World:   world.DefaultParams(),
		Logging: LoggingConfig{Level: "info"},
		Serve:   ServeConfig{Addr: DefaultAddr},
		DataDir: DefaultDataDir,
	}
}

// Load overlays the yaml file at path on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidConfig}, args...)...)
	}

	switch {
	case c.Device.Baud <= 0:
		return invalid("device.baud must be positive, got %d", c.Device.Baud)
	case c.Device.ReadTimeout < 0:
		return invalid("device.read_timeout must not be negative, got %v", c.Device.ReadTimeout)
	case c.Actuator.Rate <= 0:
		return invalid("actuator.rate must be positive, got %g", c.Actuator.Rate)
	case c.Actuator.Queue != "" && c.Actuator.Queue != "fifo" && c.Actuator.Queue != "mailbox":
		return invalid("actuator.queue must be fifo or mailbox, got %q", c.Actuator.Queue)
	case c.Sim.Dt <= 0:
		return invalid("sim.dt must be positive, got %g", c.Sim.Dt)
	case c.Sim.Steps < 0:
		return invalid("sim.steps must not be negative, got %d", c.Sim.Steps)
	case c.Sim.Rate < 0:
		return invalid("sim.rate must not be negative, got %g", c.Sim.Rate)
	case c.Sim.Robots < 0:
		return invalid("sim.robots must not be negative, got %d", c.Sim.Robots)
	case c.World.RobotRadius <= 0 || c.World.BallRadius <= 0:
		return invalid("world radii must be positive")
	case c.World.RobotMass <= 0 || c.World.BallMass <= 0:
		return invalid("world masses must be positive")
	}
	return nil
}

func (c *Config) ActuatorConfig() actuator.Config {
	return actuator.Config{
		Port:           c.Device.Port,
		Baud:           c.Device.Baud,
		ReadTimeout:    c.Device.ReadTimeout,
		Rate:           c.Actuator.Rate,
		SafeStopOnExit: c.Actuator.SafeStop,
		Queue:          c.Actuator.Queue,
	}
}

func (c *Config) StepperConfig() sim.Config {
	return sim.Config{
		Dt:          c.Sim.Dt,
		Steps:       c.Sim.Steps,
		Rate:        c.Sim.Rate,
		RecordEvery: c.Sim.RecordEvery,
		Gravity:     c.Gravity(),
	}
}

func (c *Config) Gravity() world.Vec {
	return world.Vec{X: c.Sim.GravityX, Y: c.Sim.GravityY}
}

func (c *Config) Scene() world.Scene {
	return world.Scene{Params: c.World, Robots: c.Sim.Robots}
}
