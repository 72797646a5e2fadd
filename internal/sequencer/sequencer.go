package sequencer

import (
	"fmt"
	"time"

	"github.com/san-kum/scramble/internal/scramble"
	"go.uber.org/zap"
)

// Sequencer plays steps one after another on a FrameScheduler. It owns
// the displayed state exclusively and is not safe for concurrent use.
type Sequencer struct {
	steps   []scramble.Step
	offsets []time.Duration
	total   time.Duration

	frames    FrameScheduler
	engine    *scramble.Engine
	clock     func() time.Time
	reduced   func() bool
	logger    *zap.Logger
	observers []Observer

	runID    uint64
	phase    Phase
	state    State
	start    time.Time
	next     int
	resolved int
	timeline bool
}

type Option func(*Sequencer)

func WithClock(clock func() time.Time) Option {
	return func(s *Sequencer) { s.clock = clock }
}

func WithEngine(e *scramble.Engine) Option {
	return func(s *Sequencer) { s.engine = e }
}

// WithReducedMotion sets the preference query consulted on every Start.
func WithReducedMotion(query func() bool) Option {
	return func(s *Sequencer) { s.reduced = query }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Sequencer) { s.observers = append(s.observers, o) }
}

// New validates steps and returns an idle sequencer.
func New(steps []scramble.Step, frames FrameScheduler, opts ...Option) (*Sequencer, error) {
	if err := scramble.ValidateSteps(steps); err != nil {
		return nil, fmt.Errorf("sequencer: %w", err)
	}
	if frames == nil {
		return nil, fmt.Errorf("sequencer: frame scheduler is required")
	}

	s := &Sequencer{
		steps:   append([]scramble.Step(nil), steps...),
		frames:  frames,
		clock:   time.Now,
		reduced: func() bool { return false },
		logger:  zap.NewNop(),
		state: State{
			Lines:      make([]string, len(steps)),
			ActiveLine: -1,
		},
	}
	s.offsets, s.total = scramble.Timeline(s.steps)
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = scramble.NewEngine(nil)
	}
	return s, nil
}

func (s *Sequencer) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sequencer) State() State           { return s.state.Clone() }
func (s *Sequencer) Phase() Phase           { return s.phase }
func (s *Sequencer) RunID() uint64          { return s.runID }
func (s *Sequencer) Total() time.Duration   { return s.total }
func (s *Sequencer) Steps() []scramble.Step { return append([]scramble.Step(nil), s.steps...) }

// Progress reports how far the current run is through its timeline.
func (s *Sequencer) Progress(now time.Time) float64 {
	switch s.phase {
	case PhaseSettled, PhaseStatic:
		return 1
	case PhaseRunning:
		p := float64(now.Sub(s.start)) / float64(s.total)
		return min(1, max(0, p))
	}
	return 0
}

// OnEnter is invoked when the render surface first becomes visible.
func (s *Sequencer) OnEnter() {
	s.logger.Debug("surface entered")
	s.Start()
}

// OnEnterBack is invoked when the surface becomes visible again.
func (s *Sequencer) OnEnterBack() {
	s.logger.Debug("surface re-entered")
	s.Start()
}

// Start supersedes any previous run and plays the steps from the top.
func (s *Sequencer) Start() {
	s.runID++
	run := s.runID

	if s.reduced() {
		s.showFinal(run)
		return
	}

	s.state = State{Lines: make([]string, len(s.steps)), ActiveLine: 0}
	s.phase = PhaseRunning
	s.next, s.resolved, s.timeline = 0, 0, false
	s.start = s.clock()

	s.logger.Debug("run started",
		zap.Uint64("run", run),
		zap.Int("steps", len(s.steps)),
		zap.Duration("total", s.total))

	s.notify(s.start)
	s.frames.RequestFrame(s.timelineFrame(run, s.start))
}

// Stop invalidates the current run without touching displayed text. It
// may be called any number of times, including after teardown.
func (s *Sequencer) Stop() {
	s.runID++
	if s.phase != PhaseIdle {
		s.logger.Debug("run stopped", zap.Uint64("run", s.runID-1), zap.Stringer("phase", s.phase))
	}
	s.phase = PhaseIdle
}

func (s *Sequencer) showFinal(run uint64) {
	lines := make([]string, len(s.steps))
	for i, st := range s.steps {
		lines[i] = st.Text
	}
	s.state = State{Lines: lines, ActiveLine: len(s.steps) - 1}
	s.phase = PhaseStatic
	s.logger.Debug("reduced motion, showing final text", zap.Uint64("run", run))
	s.notify(s.clock())
}

func (s *Sequencer) timelineFrame(run uint64, start time.Time) func(time.Time) {
	var frame func(time.Time)
	frame = func(now time.Time) {
		if run != s.runID {
			return
		}
		elapsed := now.Sub(start)
		for s.next < len(s.steps) && elapsed >= s.offsets[s.next] {
			s.beginStep(run, s.next, start.Add(s.offsets[s.next]), now)
			s.next++
		}
		if s.next == len(s.steps) && elapsed >= s.total {
			s.timeline = true
			s.settle(run, now)
			return
		}
		s.frames.RequestFrame(frame)
	}
	return frame
}

func (s *Sequencer) beginStep(run uint64, idx int, stepStart, now time.Time) {
	s.state.ActiveLine = idx
	s.logger.Debug("step started",
		zap.Uint64("run", run),
		zap.Int("line", idx),
		zap.String("id", s.steps[idx].ID))
	s.notify(now)
	s.frames.RequestFrame(s.scrambleFrame(run, idx, stepStart))
}

func (s *Sequencer) scrambleFrame(run uint64, idx int, stepStart time.Time) func(time.Time) {
	step := s.steps[idx]
	var frame func(time.Time)
	frame = func(now time.Time) {
		f, ok := s.engine.Frame(step, now.Sub(stepStart), run, s.runID)
		if !ok {
			return
		}
		s.state.Lines[idx] = f.Text
		s.notify(now)
		if !f.Done {
			s.frames.RequestFrame(frame)
			return
		}
		s.resolved++
		s.settle(run, now)
	}
	return frame
}

// settle shows the cursor once the timeline has elapsed and every line
// has delivered its final text.
func (s *Sequencer) settle(run uint64, now time.Time) {
	if !s.timeline || s.resolved < len(s.steps) || s.phase != PhaseRunning {
		return
	}
	s.state.CursorVisible = true
	s.phase = PhaseSettled
	s.logger.Debug("run settled", zap.Uint64("run", run), zap.Duration("elapsed", now.Sub(s.start)))
	s.notify(now)
}

func (s *Sequencer) notify(now time.Time) {
	if len(s.observers) == 0 {
		return
	}
	st := s.state.Clone()
	for _, o := range s.observers {
		o.OnFrame(now, st)
	}
}
