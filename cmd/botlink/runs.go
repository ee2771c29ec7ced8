package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/botlink/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSTEPS\tDURATION\tDT\tROBOTS\tGRAVITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%d\t%.2f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Duration,
			run.Dt,
			run.Robots,
			run.Gravity.Y,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	column := fmt.Sprintf("b%d_%s", plotBody, plotAxis)
	data, ok := traj.Series(column)
	if !ok {
		return fmt.Errorf("run %s has no column %s (have %v)", runID, column, traj.Columns)
	}
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	kind := "body"
	for _, b := range meta.Bodies {
		if int(b.Handle) == plotBody {
			kind = b.Kind
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%d robots)\n", meta.Scene, meta.Robots)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %d: %s vs time", kind, plotBody, plotAxis)),
	)
	fmt.Println(graph)
	return nil
}
