package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/botlink/internal/broadcast"
	"github.com/san-kum/botlink/internal/config"
	"github.com/san-kum/botlink/internal/export"
	"github.com/san-kum/botlink/internal/log"
	"github.com/san-kum/botlink/internal/metrics"
	"github.com/san-kum/botlink/internal/sim"
	"github.com/san-kum/botlink/internal/storage"
	"github.com/san-kum/botlink/internal/viz"
	"github.com/san-kum/botlink/internal/world"
)

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	simCfg := cfg.StepperConfig()
	simCfg.Rate = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(sweep) > 0 {
		return runSweep(ctx, cfg, simCfg, logger)
	}

	stepper := sim.New(world.Build(cfg.Scene()), logger)
	fieldMetrics := metrics.Default(cfg.World, simCfg.Gravity)
	stepper.AddObserver(fieldMetrics)

	fmt.Printf("running field simulation (%d robots, %d steps)...\n", cfg.Sim.Robots, simCfg.Steps)
	start := time.Now()

	result, err := stepper.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d (t=%.3fs)\n", result.StepsTaken, result.Final.Time)
	for _, b := range result.Final.Bodies {
		fmt.Printf("  %-5s %2d  x=%8.4f  y=%8.4f  angle=%7.4f\n", b.Type, b.Handle, b.X, b.Y, b.Angle)
	}
	fmt.Println("\nmetrics:")
	values := fieldMetrics.Values()
	for _, m := range fieldMetrics {
		fmt.Printf("  %s: %.6f\n", m.Name(), values[m.Name()])
	}

	info := storage.RunInfo{
		Scene:   sceneName(),
		Robots:  cfg.Sim.Robots,
		Dt:      simCfg.Dt,
		Gravity: simCfg.Gravity,
	}

	if save {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(info, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.FieldSVG(f, result.Snapshots, cfg.World); err != nil {
			return err
		}
		fmt.Printf("field drawn to %s\n", svgOut)
	}

	switch jsonOut {
	case "":
	case "-":
		return storage.ExportJSON(os.Stdout, info, result)
	default:
		if err := storage.ExportJSONFile(jsonOut, info, result); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonOut)
	}
	return nil
}

func sceneName() string {
	if preset != "" {
		return preset
	}
	return "field"
}

func runSweep(ctx context.Context, cfg *config.Config, simCfg sim.Config, logger log.Logger) error {
	variants := make([]sim.Variant, 0, len(sweep))
	for _, g := range sweep {
		variants = append(variants, sim.Variant{
			Name:    fmt.Sprintf("g=%g", g),
			Scene:   cfg.Scene(),
			Gravity: world.Vec{X: cfg.Sim.GravityX, Y: g},
		})
	}

	results, err := sim.RunBatch(ctx, variants, simCfg, logger)
	if err != nil {
		return err
	}

	for i, res := range results {
		ball, ok := res.Final.First(world.Ball)
		if !ok {
			fmt.Printf("%-10s steps=%d  no ball\n", variants[i].Name, res.StepsTaken)
			continue
		}
		fmt.Printf("%-10s steps=%d  ball y=%8.4f\n", variants[i].Name, res.StepsTaken, ball.Y)
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	simCfg := cfg.StepperConfig()
	if !cmd.Flags().Changed("steps") {
		simCfg.Steps = 0
	}
	simCfg.RecordEvery = 0

	stepper := sim.New(world.Build(cfg.Scene()), logger)
	p := tea.NewProgram(viz.NewFieldModel(cfg.World))
	stepper.AddObserver(sim.ObserverFunc(func(s world.Snapshot) {
		p.Send(viz.SnapshotMsg(s))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := stepper.Run(ctx, simCfg)
		p.Send(viz.DoneMsg{Err: err})
		done <- err
	}()

	_, runErr := p.Run()
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return runErr
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	simCfg := cfg.StepperConfig()
	simCfg.Steps = 0
	simCfg.RecordEvery = 0
	if simCfg.Rate == 0 {
		simCfg.Rate = 60
	}

	hub := broadcast.NewHub(logger)
	stepper := sim.New(world.Build(cfg.Scene()), logger)
	stepper.AddObserver(hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: cfg.Serve.Addr, Handler: hub.Handler()}
	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		if _, err := stepper.Run(ctx, simCfg); err != nil {
			logger.Errorf("stepper: %v", err)
			stop()
		}
	}()

	logger.Infof("streaming snapshots on ws://%s/ws", cfg.Serve.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
