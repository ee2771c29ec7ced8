package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/botlink/internal/world"
)

const (
	fieldWidth      = 60
	fieldHeight     = 20
	historyCapacity = 300
	fieldMargin     = 0.5
)

// SnapshotMsg delivers a world snapshot to a running program.
type SnapshotMsg world.Snapshot

// DoneMsg reports that the producer of snapshots has stopped.
type DoneMsg struct{ Err error }

// Bounds is the visible field rectangle in meters.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundsFor frames the bodies of s with a margin.
func BoundsFor(s world.Snapshot, radius float64) Bounds {
	if len(s.Bodies) == 0 {
		return Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	}
	b := Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for _, body := range s.Bodies {
		b.MinX = min(b.MinX, body.X)
		b.MaxX = max(b.MaxX, body.X)
		b.MinY = min(b.MinY, body.Y)
		b.MaxY = max(b.MaxY, body.Y)
	}
	pad := radius + fieldMargin
	return Bounds{MinX: b.MinX - pad, MaxX: b.MaxX + pad, MinY: b.MinY - pad, MaxY: b.MaxY + pad}
}

// FieldModel presents snapshots as a top view of the field. It never touches
// the World; everything it shows arrives as SnapshotMsg.
type FieldModel struct {
	params world.Params
	canvas *Canvas
	bounds *Bounds

	snap       world.Snapshot
	hasSnap    bool
	paused     bool
	ballHeight []float64
	done       bool
	err        error
}

func NewFieldModel(params world.Params) FieldModel {
	return FieldModel{
		params:     params,
		canvas:     NewCanvas(fieldWidth, fieldHeight),
		ballHeight: make([]float64, 0, historyCapacity),
	}
}

func (m FieldModel) Init() tea.Cmd { return nil }

func (m FieldModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.bounds = nil
			m.ballHeight = m.ballHeight[:0]
		}
	case SnapshotMsg:
		if m.paused {
			return m, nil
		}
		m.apply(world.Snapshot(msg))
	case DoneMsg:
		m.done = true
		m.err = msg.Err
	}
	return m, nil
}

func (m *FieldModel) apply(s world.Snapshot) {
	m.snap = s
	m.hasSnap = true
	if m.bounds == nil {
		b := BoundsFor(s, m.params.RobotRadius)
		m.bounds = &b
	}
	for _, b := range s.Bodies {
		if b.Kind == world.Ball {
			if len(m.ballHeight) == historyCapacity {
				m.ballHeight = append(m.ballHeight[:0], m.ballHeight[1:]...)
			}
			m.ballHeight = append(m.ballHeight, b.Y)
			break
		}
	}
}

// project maps field meters to canvas sub-pixels, y up.
func (m FieldModel) project(x, y float64) (int, int) {
	b := m.bounds
	w := float64(m.canvas.Width*2 - 1)
	h := float64(m.canvas.Height*4 - 1)
	px := (x - b.MinX) / (b.MaxX - b.MinX) * w
	py := (b.MaxY - y) / (b.MaxY - b.MinY) * h
	return int(math.Round(px)), int(math.Round(py))
}

func (m FieldModel) scale(r float64) int {
	b := m.bounds
	return int(math.Round(r / (b.MaxX - b.MinX) * float64(m.canvas.Width*2-1)))
}

func (m FieldModel) renderField() string {
	m.canvas.Clear()
	if !m.hasSnap {
		return m.canvas.String()
	}

	for _, b := range m.snap.Bodies {
		cx, cy := m.project(b.X, b.Y)
		switch b.Kind {
		case world.Ball:
			m.canvas.FillCircle(cx, cy, max(m.scale(m.params.BallRadius), 1))
		default:
			r := max(m.scale(m.params.RobotRadius), 2)
			m.canvas.DrawCircle(cx, cy, r)
			hx, hy := m.project(b.X+m.params.RobotRadius*math.Cos(b.Angle), b.Y+m.params.RobotRadius*math.Sin(b.Angle))
			m.canvas.DrawLine(cx, cy, hx, hy)
		}
	}
	return m.canvas.String()
}

func (m FieldModel) View() string {
	field := panelStyle.Render(robotStyle.Render(m.renderField()))

	var stats strings.Builder
	stats.WriteString(titleStyle.Render("FIELD") + "\n\n")
	switch {
	case m.err != nil:
		stats.WriteString(statusError.Render("● " + m.err.Error()))
	case m.done:
		stats.WriteString(statusPaused.Render("■ finished"))
	case m.paused:
		stats.WriteString(statusPaused.Render("❚❚ paused"))
	default:
		stats.WriteString(statusRunning.Render("▶ running"))
	}
	stats.WriteString("\n\n")
	stats.WriteString(row("step", fmt.Sprintf("%d", m.snap.Step)) + "\n")
	stats.WriteString(row("time", fmt.Sprintf("%.2fs", m.snap.Time)) + "\n")
	stats.WriteString(row("bodies", fmt.Sprintf("%d", len(m.snap.Bodies))) + "\n")
	for _, b := range m.snap.Bodies {
		if b.Kind == world.Ball {
			stats.WriteString(row("ball", fmt.Sprintf("(%.2f, %.2f)", b.X, b.Y)) + "\n")
		}
	}

	if len(m.ballHeight) > 1 {
		graph := asciigraph.Plot(m.ballHeight,
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.Caption("ball height (m)"))
		stats.WriteString("\n" + graphStyle.Render(graph))
	}

	help := keyHintStyle.Render("space pause • r reframe • q quit")
	body := lipgloss.JoinHorizontal(lipgloss.Top, field, "  ", stats.String())
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

// Snapshot returns the snapshot currently shown.
func (m FieldModel) Snapshot() (world.Snapshot, bool) { return m.snap, m.hasSnap }
