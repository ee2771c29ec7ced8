package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/botlink/internal/actuator"
	"github.com/san-kum/botlink/internal/device"
	"github.com/san-kum/botlink/internal/viz"
)

func listPorts(cmd *cobra.Command, args []string) error {
	ports, err := device.ListAvailable()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("no serial ports found (use \"sim\" for the simulated device)")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	port := cfg.Device.Port
	if len(args) == 1 {
		port = args[0]
	}
	if useSim {
		port = "sim"
	}
	if port == "" {
		ports, _ := device.ListAvailable()
		return fmt.Errorf("no port given (available: %v, or use --sim)", ports)
	}
	cfg.Device.Port = port

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opener := device.OpenerFor(port)
	simOpener, isSim := opener.(*device.SimOpener)
	if isSim {
		simOpener.Integrator = integrator
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := actuator.StartClient(ctx, opener, cfg.ActuatorConfig(), logger)
	if err != nil {
		return err
	}

	model := viz.NewTeleopModel(client, port)
	model.Status = func() string {
		stats := client.Worker().Stats()
		status := fmt.Sprintf("%d frames, %d bytes", stats.Frames, stats.Bytes)
		if isSim {
			if link := simOpener.Last(); link != nil {
				p := link.Pose()
				status += fmt.Sprintf(" | pose (%.2f, %.2f, %.2f rad)", p.X, p.Y, p.Theta)
			}
		}
		return status
	}

	p := tea.NewProgram(model)
	go func() {
		<-client.Done()
		p.Send(viz.DoneMsg{Err: client.Err()})
	}()

	_, runErr := p.Run()
	closeErr := client.Close()
	if closeErr != nil && !errors.Is(closeErr, context.Canceled) {
		return closeErr
	}
	return runErr
}
