package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/botlink/internal/sim"
	"github.com/san-kum/botlink/internal/world"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scene   string    `json:"scene"`
	Robots  int       `json:"robots"`
	Dt      float64   `json:"dt"`
	Gravity world.Vec `json:"gravity"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Steps    int           `json:"steps"`
	Duration float64       `json:"duration"`
	Bodies   []BodySummary `json:"bodies"`
}

type BodySummary struct {
	Handle world.Handle `json:"id"`
	Kind   string       `json:"kind"`
}

func newRunID(scene string) string {
	return fmt.Sprintf("%s_%d_%s", scene, time.Now().Unix(), uuid.NewString()[:8])
}

// Save writes the run metadata and its recorded snapshots as a trajectory.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	if info.Scene == "" {
		info.Scene = "field"
	}
	runID := newRunID(info.Scene)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		RunInfo:   info,
		Steps:     result.StepsTaken,
		Duration:  result.Final.Time,
	}
	for _, b := range result.Final.Bodies {
		meta.Bodies = append(meta.Bodies, BodySummary{Handle: b.Handle, Kind: b.Type})
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Snapshots); err != nil {
		return "", err
	}
	return runID, nil
}

func writeTrajectory(path string, snaps []world.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(snaps) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "step"}
	for _, b := range snaps[0].Bodies {
		for _, field := range []string{"x", "y", "angle"} {
			header = append(header, fmt.Sprintf("b%d_%s", b.Handle, field))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, snap := range snaps {
		row := []string{format(snap.Time), strconv.Itoa(snap.Step)}
		for _, b := range snap.Bodies {
			row = append(row, format(b.X), format(b.Y), format(b.Angle))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Trajectory is the recorded pose history of a run, one row per snapshot.
type Trajectory struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Series returns one column over time, e.g. "b1_y".
func (t *Trajectory) Series(column string) ([]float64, bool) {
	idx := -1
	for i, c := range t.Columns {
		if c == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) == 0 {
		return traj, nil
	}
	if len(records[0]) > 2 {
		traj.Columns = records[0][2:]
	}

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		traj.Times = append(traj.Times, t)
		traj.Rows = append(traj.Rows, row)
	}
	return traj, nil
}
