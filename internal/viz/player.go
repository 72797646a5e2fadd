package viz

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scramble/internal/scramble"
	"github.com/san-kum/scramble/internal/sequencer"
	"github.com/san-kum/scramble/internal/trigger"
	"go.uber.org/zap"
)

type TickMsg time.Time

// ReloadMsg replaces the steps being played, e.g. after the config file
// changed on disk. A non-nil Err is shown instead.
type ReloadMsg struct {
	Steps []scramble.Step
	Err   error
}

// visibleMsg marks the surface as shown when the program starts.
type visibleMsg struct{}

type Options struct {
	Title         string
	FPS           int
	Theme         string
	Seed          uint64
	ReducedMotion func() bool
	Logger        *zap.Logger
	// Observers are attached to every sequencer the player builds.
	Observers []sequencer.Observer
}

// Player is the Bubble Tea model that hosts a sequencer. The terminal is
// its render surface and focus events are its visibility signal.
type Player struct {
	opts    Options
	seq     *sequencer.Sequencer
	loop    *sequencer.FrameLoop
	tracker *trigger.Tracker
	theme   Theme
	st      styles
	bar     progress.Model

	width, height int
	now           time.Time
	frames        int
	blinkOn       bool
	err           error
}

func NewPlayer(steps []scramble.Step, opts Options) (Player, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "Orange Servers"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ReducedMotion == nil {
		opts.ReducedMotion = func() bool { return false }
	}

	p := Player{
		opts:    opts,
		loop:    sequencer.NewFrameLoop(),
		theme:   GetTheme(opts.Theme),
		width:   80,
		height:  24,
		now:     time.Now(),
		blinkOn: true,
	}
	p.st = newStyles(p.theme)
	p.bar = newProgress(p.theme)

	seq, err := p.build(steps)
	if err != nil {
		return Player{}, err
	}
	p.seq = seq
	p.tracker = trigger.NewTracker(seq)
	return p, nil
}

func (p Player) build(steps []scramble.Step) (*sequencer.Sequencer, error) {
	opts := []sequencer.Option{
		sequencer.WithReducedMotion(p.opts.ReducedMotion),
		sequencer.WithLogger(p.opts.Logger),
	}
	if p.opts.Seed != 0 {
		rng := rand.New(rand.NewPCG(p.opts.Seed, p.opts.Seed^0x9e3779b97f4a7c15))
		opts = append(opts, sequencer.WithEngine(scramble.NewEngine(rng)))
	}
	for _, o := range p.opts.Observers {
		opts = append(opts, sequencer.WithObserver(o))
	}
	return sequencer.New(steps, p.loop, opts...)
}

func (p Player) Sequencer() *sequencer.Sequencer { return p.seq }

func (p Player) interval() time.Duration {
	return time.Second / time.Duration(p.opts.FPS)
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(p.interval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p Player) Init() tea.Cmd {
	return tea.Batch(p.tick(), func() tea.Msg { return visibleMsg{} })
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		p.now = time.Time(msg)
		p.loop.Tick(p.now)
		p.frames++
		if half := p.opts.FPS / 2; half > 0 && p.frames%half == 0 {
			p.blinkOn = !p.blinkOn
		}
		return p, p.tick()

	case visibleMsg, tea.FocusMsg:
		p.tracker.Show()

	case tea.BlurMsg:
		p.tracker.Hide()

	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height

	case ReloadMsg:
		return p.reload(msg), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			p.seq.Stop()
			return p, tea.Quit
		case "r", "enter", " ":
			p.err = nil
			p.seq.Start()
		case "s":
			p.seq.Stop()
		case "t":
			p.theme = NextTheme(p.theme.Name)
			p.st = newStyles(p.theme)
			p.bar = newProgress(p.theme)
		}
	}
	return p, nil
}

func (p Player) reload(msg ReloadMsg) Player {
	if msg.Err != nil {
		p.err = msg.Err
		p.opts.Logger.Warn("reload rejected", zap.Error(msg.Err))
		return p
	}
	seq, err := p.build(msg.Steps)
	if err != nil {
		p.err = err
		p.opts.Logger.Warn("reload rejected", zap.Error(err))
		return p
	}
	p.seq.Stop()
	p.seq = seq
	p.err = nil
	p.tracker.SetHooks(seq)
	p.opts.Logger.Info("steps reloaded", zap.Int("steps", len(msg.Steps)))
	seq.Start()
	return p
}

func (p Player) View() string {
	state := p.seq.State()
	steps := p.seq.Steps()

	var b strings.Builder
	b.WriteString(p.st.title.Render(GradientText(p.opts.Title, p.theme.Primary, p.theme.Accent)))
	b.WriteString("\n")

	for i, line := range state.Lines {
		b.WriteString(p.renderLine(line, steps[i].Text, i == state.ActiveLine))
		if i == state.ActiveLine {
			b.WriteString(p.renderCursor(state.CursorVisible))
		}
		b.WriteString("\n")
	}

	body := p.st.panel.Render(strings.TrimRight(b.String(), "\n"))

	status := lipgloss.JoinHorizontal(lipgloss.Left,
		p.st.label.Render("phase "), p.st.status.Render(fmt.Sprintf("%-8s", p.seq.Phase())),
		p.st.label.Render("  run "), p.st.value.Render(fmt.Sprintf("#%-4d", p.seq.RunID())),
		p.st.label.Render("  "), p.bar.ViewAs(p.seq.Progress(p.now)),
		p.st.label.Render("  theme "), p.st.value.Render(p.theme.Name),
	)

	out := []string{body, p.st.Separator(lipgloss.Width(body)), status}
	if p.err != nil {
		out = append(out, p.st.errStyle.Render("error: "+p.err.Error()))
	}
	out = append(out, p.st.help.Render("r replay · s stop · t theme · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (p Player) renderLine(line, target string, active bool) string {
	switch {
	case line == target && line != "":
		return p.st.settled.Render(line)
	case active:
		return p.st.active.Render(line)
	}
	return p.st.line.Render(line)
}

// renderCursor blinks only once the run has settled.
func (p Player) renderCursor(settled bool) string {
	if settled && !p.blinkOn {
		return " "
	}
	return p.st.cursor.Render(cursorGlyph)
}
