package viz

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/balancesim/internal/config"
	"github.com/san-kum/balancesim/internal/control"
	"github.com/san-kum/balancesim/internal/dynamo"
	"github.com/san-kum/balancesim/internal/experiment"
	"github.com/san-kum/balancesim/internal/physics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 18
	historyCapacity = 600
	tickInterval    = time.Second / 60
	nudgeStep       = 0.05
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// tunable is a parameter exposed by the robot or the controller.
type tunable struct {
	owner dynamo.Configurable
	value float64
}

// Model runs one robot and controller at wall clock pace and draws the
// charge station as it tilts.
type Model struct {
	name       string
	robot      *physics.Robot
	controller dynamo.Controller
	sim        *dynamo.Simulator
	simCfg     dynamo.Config
	registry   *experiment.Registry
	ctrlCfg    config.ControllerConfig

	step         int
	stepsPerTick int
	last         dynamo.Frame
	power        float64
	running      bool
	finished     bool
	err          error

	angles    []float64
	positions []float64

	params        map[string]*tunable
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	canvas   *Canvas
	theme    Theme
	showHelp bool
}

// NewModel builds the robot and controller described by cfg.
func NewModel(cfg *config.Config, registry *experiment.Registry) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	robot, err := experiment.NewRobot(cfg.Robot)
	if err != nil {
		return Model{}, err
	}
	ctrl, err := registry.GetController(cfg.Controller, cfg.Dt)
	if err != nil {
		return Model{}, err
	}

	simCfg := cfg.SimConfig()
	m := Model{
		name:          cfg.Name,
		robot:         robot,
		controller:    ctrl,
		sim:           dynamo.New(robot, ctrl),
		simCfg:        simCfg,
		registry:      registry,
		ctrlCfg:       cfg.Controller,
		stepsPerTick:  max(1, int(math.Round(tickInterval.Seconds()/simCfg.Dt))),
		running:       true,
		angles:        make([]float64, 0, historyCapacity),
		positions:     make([]float64, 0, historyCapacity),
		initialParams: make(map[string]float64),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		theme:         ThemeDefault,
	}
	m.last = dynamo.Frame{Position: robot.Position(), Angle: robot.Angle()}

	m.bindParams()
	for k, p := range m.params {
		m.initialParams[k] = p.value
	}

	return m, nil
}

// bindParams collects the tunable parameters of the current controller
// and robot.
func (m *Model) bindParams() {
	m.params = make(map[string]*tunable)
	m.paramKeys = nil
	for _, owner := range []any{m.controller, m.robot} {
		c, ok := owner.(dynamo.Configurable)
		if !ok {
			continue
		}
		for k, v := range c.GetParams() {
			m.params[k] = &tunable{owner: c, value: v}
			m.paramKeys = append(m.paramKeys, k)
		}
	}
	sort.Strings(m.paramKeys)
	if m.selected >= len(m.paramKeys) {
		m.selected = 0
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.finished && m.err == nil {
				m.running = !m.running
			}
		case ".":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "left", "h":
			m.nudge(-nudgeStep)
		case "right", "l":
			m.nudge(nudgeStep)
		case "t":
			m.theme = nextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs up to n driver steps, stopping at the end of the configured
// duration or on the first error.
func (m *Model) advance(n int) {
	total := m.simCfg.Steps()
	for i := 0; i < n; i++ {
		if m.step > total {
			m.finished, m.running = true, false
			return
		}
		f, u, err := m.sim.Step(m.step, m.simCfg)
		m.last, m.power = f, u
		m.step++
		m.record(f)
		if err != nil {
			m.err, m.running = err, false
			return
		}
	}
}

func (m *Model) record(f dynamo.Frame) {
	m.angles = append(m.angles, f.Angle)
	if len(m.angles) > historyCapacity {
		m.angles = m.angles[1:]
	}
	m.positions = append(m.positions, f.Position)
	if len(m.positions) > historyCapacity {
		m.positions = m.positions[1:]
	}
}

// nudge changes the power of a manual controller.
func (m *Model) nudge(delta float64) {
	if manual, ok := m.controller.(*control.Manual); ok {
		manual.Nudge(delta)
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. A zero value is stepped by a
// small amount instead so it can leave zero.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	p := m.params[key]
	newVal := p.value * factor
	if p.value == 0 {
		newVal = 0.01 * sign(factor-1)
	}
	if err := p.owner.SetParam(key, newVal); err != nil {
		return
	}
	p.value = newVal
}

// reset restores the initial robot state and parameters and starts over
// with a fresh controller, so no error carries over from the previous run.
func (m *Model) reset() {
	ctrl, err := m.registry.GetController(m.ctrlCfg, m.simCfg.Dt)
	if err != nil {
		m.err, m.running = err, false
		return
	}
	m.controller = ctrl
	m.sim = dynamo.New(m.robot, ctrl)

	m.robot.Reset()
	for k, v := range m.robot.GetParams() {
		if initial, ok := m.initialParams[k]; ok && initial != v {
			_ = m.robot.SetParam(k, initial)
		}
	}
	m.bindParams()

	m.step = 0
	m.last = dynamo.Frame{Position: m.robot.Position(), Angle: m.robot.Angle()}
	m.power = 0
	m.angles = m.angles[:0]
	m.positions = m.positions[:0]
	m.running, m.finished, m.err = true, false, nil
}

// View renders the TUI interface.
func (m Model) View() string {
	st := newStyles(m.theme)
	m.draw()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.failed.Render(failureText(m.err)) + "\n\n")
	case m.finished:
		s.WriteString(st.paused.Render("FINISHED") + "\n\n")
	case !m.running:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	}

	if len(m.angles) > 1 {
		chart := asciigraph.Plot(m.angles,
			asciigraph.Height(5),
			asciigraph.Width(32),
			asciigraph.LowerBound(-physics.MaxAngle),
			asciigraph.UpperBound(physics.MaxAngle),
			asciigraph.Caption("angle (rad)"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.last.Time))
	row("Angle", fmt.Sprintf("%+.4f rad", m.last.Angle))
	row("Position", fmt.Sprintf("%.3f m", m.last.Position))
	row("Velocity", fmt.Sprintf("%+.3f m/s", m.robot.Velocity()))
	row("Power", fmt.Sprintf("%s %+.2f", PowerBar(m.power, 8), m.power))

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) > 0 {
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-18s %10.4f", k, m.params[k].value)
			if i == m.selected {
				s.WriteString(st.active.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + st.value.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}

	hint := "SP:Pause .:Step R:Reset Q:Quit\nTab/↑↓:Tune T:Theme ?:Help"
	if _, ok := m.controller.(*control.Manual); ok {
		hint += "\n←→:Power"
	}
	s.WriteString(st.help.Render(hint))

	canvasView := st.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space   pause or resume
  .       single step while paused
  R       reset robot, controller and parameters
  Tab     select parameter
  Up/K    increase parameter (+5%)
  Down/J  decrease parameter (-5%)
  Left/H  reduce manual power
  Right/L raise manual power
  T       cycle themes
  Q       quit`

func failureText(err error) string {
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		return fmt.Sprintf("STOPPED at %.2fs: %v", simErr.Time, simErr.Wrapped)
	}
	return "STOPPED: " + err.Error()
}

// draw renders the station tilted about its pivot with the robot on it.
// A positive angle lowers the end the robot starts from.
func (m *Model) draw() {
	c := m.canvas
	c.Clear()

	pw, ph := c.PixelWidth(), c.PixelHeight()
	cx, cy := pw/2, ph*3/5
	groundY := ph - 6
	scale := float64(pw) * 0.8 / physics.ChargeStationLength

	// ground and pivot
	c.DrawLine(0, groundY, pw-1, groundY)
	c.DrawLine(cx, cy, cx-6, groundY)
	c.DrawLine(cx, cy, cx+6, groundY)

	half := physics.ChargeStationLength / 2 * scale
	cos, sin := math.Cos(m.last.Angle), math.Sin(m.last.Angle)
	lx, ly := cx-int(half*cos), cy+int(half*sin)
	rx, ry := cx+int(half*cos), cy-int(half*sin)
	c.DrawLine(lx, ly, rx, ry)
	c.DrawLine(lx, ly+1, rx, ry+1)

	along := (m.last.Position - physics.ChargeStationLength/2) * scale
	bx, by := cx+int(along*cos), cy-int(along*sin)
	c.FillRect(bx-4, by-5, bx+4, by-1)
}
