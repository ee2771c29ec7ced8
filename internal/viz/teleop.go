package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/botlink/internal/command"
	"github.com/san-kum/botlink/internal/dynamo"
)

const (
	DefaultSpeed    float32 = 0.5
	DefaultTurnRate float32 = 1.0
	statusInterval          = 100 * time.Millisecond
)

type statusTickMsg time.Time

// KeyCommand maps a key to a robot-frame command. w/s drive along x, a/d
// strafe along y, z/c turn. Space halts with a zero move; x sends Stop, which
// makes the worker stop writing and leaves the device on its last frame.
func KeyCommand(key string, speed, turn float32) (command.Command, bool) {
	switch key {
	case "w", "up":
		return command.MoveLocal(speed, 0, 0), true
	case "s", "down":
		return command.MoveLocal(-speed, 0, 0), true
	case "a", "left":
		return command.MoveLocal(0, speed, 0), true
	case "d", "right":
		return command.MoveLocal(0, -speed, 0), true
	case "z":
		return command.MoveLocal(0, 0, turn), true
	case "c":
		return command.MoveLocal(0, 0, -turn), true
	case " ", "space":
		return command.MoveLocal(0, 0, 0), true
	case "x":
		return command.Stop(), true
	}
	return command.Command{}, false
}

// TeleopModel turns key presses into commands on a Sink. It never sees the
// device; Status, if set, is polled for a one-line device readout.
type TeleopModel struct {
	sink   command.Sink
	port   string
	speed  float32
	turn   float32
	Status func() string

	last    command.Command
	hasLast bool
	sent    int
	history []float64
	status  string
	err     error
}

func NewTeleopModel(sink command.Sink, port string) TeleopModel {
	return TeleopModel{
		sink:    sink,
		port:    port,
		speed:   DefaultSpeed,
		turn:    DefaultTurnRate,
		history: make([]float64, 0, historyCapacity),
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg { return statusTickMsg(t) })
}

func (m TeleopModel) Init() tea.Cmd { return statusTick() }

func (m TeleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "+", "=":
			m.speed = min(m.speed*1.25, 5)
			return m, nil
		case "-":
			m.speed = max(m.speed/1.25, 0.05)
			return m, nil
		}

		cmd, ok := KeyCommand(key, m.speed, m.turn)
		if !ok {
			return m, nil
		}
		if err := m.sink.Send(cmd); err != nil {
			m.err = err
			if errors.Is(err, dynamo.ErrChannelClosed) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.last, m.hasLast = cmd, true
		m.sent++
		if len(m.history) == historyCapacity {
			m.history = append(m.history[:0], m.history[1:]...)
		}
		m.history = append(m.history, float64(cmd.X))

	case statusTickMsg:
		if m.Status != nil {
			m.status = m.Status()
		}
		return m, statusTick()

	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m TeleopModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TELEOP") + "  " + subtleStyle.Render(m.port) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(statusError.Render("● " + m.err.Error()))
	case m.hasLast && m.last.IsMove() && m.last != command.MoveLocal(0, 0, 0):
		b.WriteString(statusRunning.Render("▶ moving"))
	case m.hasLast && !m.last.IsMove():
		b.WriteString(statusPaused.Render("■ released"))
	default:
		b.WriteString(statusPaused.Render("■ stopped"))
	}
	b.WriteString("\n\n")

	last := "none"
	if m.hasLast {
		last = m.last.String()
	}
	b.WriteString(row("command", last) + "\n")
	b.WriteString(row("sent", fmt.Sprintf("%d", m.sent)) + "\n")
	b.WriteString(row("speed", fmt.Sprintf("%.2f m/s", m.speed)) + "\n")
	if m.status != "" {
		b.WriteString(row("device", m.status) + "\n")
	}
	b.WriteString("\n" + Sparkline(m.history, 40) + "\n")

	help := keyHintStyle.Render("w/s forward/back • a/d strafe • z/c turn • space halt • x release • +/- speed • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, panelStyle.Render(b.String()), help)
}

// Last returns the most recent command sent.
func (m TeleopModel) Last() (command.Command, bool) { return m.last, m.hasLast }

func (m TeleopModel) Err() error { return m.err }
