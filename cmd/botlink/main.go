package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/botlink/internal/config"
	"github.com/san-kum/botlink/internal/log"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	preset     string

	// drive
	useSim     bool
	integrator string
	baud       int
	rate       float64
	queue      string

	// sim, view, serve
	dt       float64
	steps    int
	gravity  float64
	robots   int
	save     bool
	jsonOut  string
	svgOut   string
	sweep    []float64
	simRate  float64
	addr     string
	plotBody int
	plotAxis string
)

// main registers the botlink commands and exits 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "botlink",
		Short:         "robot actuation link and field simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "apply a named preset")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "list available device identifiers",
		Args:  cobra.NoArgs,
		RunE:  listPorts,
	}

	driveCmd := &cobra.Command{
		Use:   "drive [port]",
		Short: "drive a robot from the keyboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDrive,
	}
	driveCmd.Flags().BoolVar(&useSim, "sim", false, "use the simulated device")
	driveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "simulated device integrator (euler, rk4)")
	driveCmd.Flags().IntVar(&baud, "baud", 115200, "serial baud rate")
	driveCmd.Flags().Float64Var(&rate, "rate", 20, "actuation rate in Hz")
	driveCmd.Flags().StringVar(&queue, "queue", "fifo", "command queue policy (fifo, mailbox)")

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "run the field simulation headless",
		Args:  cobra.NoArgs,
		RunE:  runSim,
	}
	addSceneFlags(simCmd)
	simCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	simCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	simCmd.Flags().StringVar(&jsonOut, "json", "", "export the run as JSON to a file (- for stdout)")
	simCmd.Flags().StringVar(&svgOut, "svg", "", "draw the final field with the ball trail as SVG")
	simCmd.Flags().Float64SliceVar(&sweep, "sweep-gravity", nil, "run one variant per vertical gravity, concurrently")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "watch the field simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runView,
	}
	addSceneFlags(viewCmd)
	viewCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 runs until quit)")
	viewCmd.Flags().Float64Var(&simRate, "rate", 60, "update events per second")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the field simulation over websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().Float64Var(&simRate, "rate", 60, "update events per second")
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body trajectory from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", 1, "body id to plot")
	plotCmd.Flags().StringVar(&plotAxis, "axis", "y", "coordinate to plot (x, y, angle)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-10s %s\n", name, config.Presets[name].Description)
			}
		},
	}

	rootCmd.AddCommand(portsCmd, driveCmd, simCmd, viewCmd, serveCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "physics time step in seconds")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "vertical gravity in m/s^2")
	cmd.Flags().IntVar(&robots, "robots", config.DefaultRobots, "robots in the row")
}

// loadConfig layers defaults, the config file, the preset, then any flag
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("baud") {
		cfg.Device.Baud = baud
	}
	if flags.Changed("rate") {
		switch cmd.Name() {
		case "drive":
			cfg.Actuator.Rate = rate
		default:
			cfg.Sim.Rate = simRate
		}
	}
	if flags.Changed("queue") {
		cfg.Actuator.Queue = queue
	}
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Sim.Steps = steps
	}
	if flags.Changed("gravity") {
		cfg.Sim.GravityY = gravity
	}
	if flags.Changed("robots") {
		cfg.Sim.Robots = robots
	}
	if flags.Changed("addr") {
		cfg.Serve.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (log.Logger, error) {
	return log.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.Dir)
}

// newFileLogger keeps log lines off a terminal owned by a Bubble Tea program.
func newFileLogger(cfg *config.Config) (log.Logger, func(), error) {
	dir := cfg.Logging.Dir
	if dir == "" {
		dir = cfg.DataDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "botlink.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return log.NewWriterLogger(cfg.Logging.Level, f), func() { f.Close() }, nil
}
