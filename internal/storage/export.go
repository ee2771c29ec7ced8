package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/botlink/internal/sim"
	"github.com/san-kum/botlink/internal/world"
)

type ExportData struct {
	RunInfo
	Steps     int              `json:"steps"`
	Snapshots []world.Snapshot `json:"snapshots"`
}

func newExport(info RunInfo, result *sim.Result) ExportData {
	return ExportData{
		RunInfo:   info,
		Steps:     result.StepsTaken,
		Snapshots: result.Snapshots,
	}
}

// ExportJSON writes the run as indented JSON to w.
func ExportJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(info, result))
}

func ExportJSONFile(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, info, result); err != nil {
		return err
	}
	return file.Close()
}
