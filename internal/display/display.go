// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent timer status bar and an input
// prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/session"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	workStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	prepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// ── Output styles (soft palette) ──

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Announcement — soft sky blue for coach lines.
	announceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Exercise — soft mint for exercise headers.
	exerciseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Primary text — light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent — soft coral for errors/alerts.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking).  Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	runner  *session.Runner
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(runner *session.Runner) *UI {
	return &UI{
		runner:  runner,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt. Thread-safe.
// The output is printed on its own line (a trailing newline in the
// format string will produce an extra blank line).
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────
// These give output visual hierarchy with lipgloss colors.

// PrintAnnouncement prints a coach announcement line.
func (u *UI) PrintAnnouncement(text string) {
	u.Println(announceStyle.Render("  " + text))
}

// PrintExercise prints an exercise header like "3/8  Incline Press (chest)".
func (u *UI) PrintExercise(text string) {
	u.Println(exerciseStyle.Render("  " + text))
}

// PrintInfo prints primary information text.
func (u *UI) PrintInfo(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an urgent/error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("repflow") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop.  Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Use a plain-text prompt so the textinput width math stays correct.
	// Lipgloss-styled prompts add invisible ANSI bytes that break the
	// internal offset/scroll calculations for long input.
	ti.Prompt = "repflow> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		runner:  u.runner,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	runner  *session.Runner
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback

	timer    domain.TimerState
	position int // current exercise index
	total    int // exercises in the workout
	width    int
}

// Messages.
type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

// The bar redraws well below the timer's own tick rate; 250ms keeps the
// countdown smooth without burning CPU on idle redraws.
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Return a Cmd that prints the echo — this runs
				// outside Update so it won't deadlock on msgs.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Let the text input use the full width minus the prompt ("repflow> " = 9 chars).
		const promptLen = 9
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case tickMsg:
		m.refresh()
		cmds := []tea.Cmd{tickCmd()}
		if m.timer.Phase != domain.PhaseIdle {
			cmds = append(cmds, tea.SetWindowTitle(m.titleStr()))
		} else {
			cmds = append(cmds, tea.SetWindowTitle("RepFlow"))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refresh() {
	m.timer = m.runner.Engine().State()
	run := m.runner.State()
	m.position = run.CurrentIndex
	m.total = len(run.Workout)
}

func (m model) titleStr() string {
	badge := phaseBadge(m.timer.Phase)
	if m.timer.Paused {
		badge = "PAUSED"
	}
	return fmt.Sprintf("RepFlow — %s %s %s", m.timer.Exercise.Name, badge, fmtDuration(m.timer.Remaining))
}

func (m model) View() string {
	var b strings.Builder

	if m.timer.Phase != domain.PhaseIdle {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var parts []string

	if m.total > 0 {
		parts = append(parts,
			labelStyle.Render(fmt.Sprintf("%d/%d ", m.position+1, m.total))+
				primaryStyle.Render(m.timer.Exercise.Name))
	}

	badge := phaseBadge(m.timer.Phase)
	style := phaseStyle(m.timer.Phase)
	switch {
	case m.timer.Paused:
		parts = append(parts, pausedStyle.Render(badge+" "+fmtDuration(m.timer.Remaining)+" (paused)"))
	case m.timer.Phase == domain.PhaseCompleted:
		parts = append(parts, doneStyle.Render("DONE"))
	default:
		parts = append(parts, style.Render(badge+" "+fmtDuration(m.timer.Remaining)))
	}

	if m.timer.Phase == domain.PhaseWorking || m.timer.Phase == domain.PhaseResting {
		parts = append(parts, labelStyle.Render(
			fmt.Sprintf("set %d  cycle %d", m.timer.CurrentSet, m.timer.CurrentCycle)))
	}

	if m.timer.Total > 0 && !m.timer.Paused && m.timer.Phase != domain.PhaseCompleted {
		parts = append(parts, renderProgress(m.timer.Remaining, m.timer.Total))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// renderProgress draws a small elapsed-time block bar.
func renderProgress(remaining, total time.Duration) string {
	const cells = 10
	elapsed := total - remaining
	if elapsed < 0 {
		elapsed = 0
	}
	filled := int(float64(cells) * float64(elapsed) / float64(total))
	if filled > cells {
		filled = cells
	}
	return labelStyle.Render(strings.Repeat("▰", filled) + strings.Repeat("▱", cells-filled))
}

func phaseBadge(p domain.Phase) string {
	switch p {
	case domain.PhasePreparing:
		return "PREP"
	case domain.PhaseWorking:
		return "WORK"
	case domain.PhaseResting:
		return "REST"
	case domain.PhaseCompleted:
		return "DONE"
	default:
		return "IDLE"
	}
}

func phaseStyle(p domain.Phase) lipgloss.Style {
	switch p {
	case domain.PhasePreparing:
		return prepStyle
	case domain.PhaseWorking:
		return workStyle
	case domain.PhaseResting:
		return restStyle
	default:
		return labelStyle
	}
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
