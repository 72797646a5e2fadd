package sequencer_test

import (
	"math/rand/v2"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scramble/internal/scramble"
	"github.com/san-kum/scramble/internal/sequencer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time               { return c.now }
func (c *fakeClock) At(d time.Duration) time.Time { return time.Unix(1000, 0).Add(d) }

var _ = Describe("Sequencer", func() {
	var (
		loop    *sequencer.FrameLoop
		clock   *fakeClock
		reduced bool
		steps   []scramble.Step
		seq     *sequencer.Sequencer
	)

	at := func(d time.Duration) time.Time { return clock.At(d) }

	BeforeEach(func() {
		loop = sequencer.NewFrameLoop()
		clock = &fakeClock{now: time.Unix(1000, 0)}
		reduced = false
		steps = []scramble.Step{
			scramble.NewStep("Deploy sites", scramble.LowerCase, time.Second),
			scramble.NewStep("GLOBAL EDGE", scramble.UpperCase, 2*time.Second),
		}
	})

	JustBeforeEach(func() {
		var err error
		seq, err = sequencer.New(steps, loop,
			sequencer.WithClock(clock.Now),
			sequencer.WithEngine(scramble.NewEngine(rand.New(rand.NewPCG(1, 2)))),
			sequencer.WithReducedMotion(func() bool { return reduced }),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("starts idle with no active line", func() {
			st := seq.State()
			Expect(seq.Phase()).To(Equal(sequencer.PhaseIdle))
			Expect(st.ActiveLine).To(Equal(-1))
			Expect(st.Lines).To(Equal([]string{"", ""}))
			Expect(st.CursorVisible).To(BeFalse())
			Expect(loop.Pending()).To(BeZero())
		})

		It("rejects an empty character set", func() {
			_, err := sequencer.New([]scramble.Step{{Text: "x", Duration: time.Second}}, loop)
			Expect(err).To(MatchError(scramble.ErrEmptyCharSet))
			Expect(err).To(MatchError(scramble.ErrInvalidStep))
		})

		It("rejects a non-positive duration", func() {
			_, err := sequencer.New([]scramble.Step{scramble.NewStep("x", "ab", 0)}, loop)
			Expect(err).To(MatchError(scramble.ErrNonPositiveDuration))
		})

		It("rejects an empty sequence", func() {
			_, err := sequencer.New(nil, loop)
			Expect(err).To(MatchError(scramble.ErrNoSteps))
		})

		It("requires a frame scheduler", func() {
			_, err := sequencer.New(steps, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Start", func() {
		It("resets state and queues exactly one timeline frame", func() {
			seq.Start()
			st := seq.State()
			Expect(seq.Phase()).To(Equal(sequencer.PhaseRunning))
			Expect(seq.RunID()).To(Equal(uint64(1)))
			Expect(st.Lines).To(Equal([]string{"", ""}))
			Expect(st.ActiveLine).To(Equal(0))
			Expect(st.CursorVisible).To(BeFalse())
			Expect(loop.Pending()).To(Equal(1))
		})

		It("plays steps sequentially on the wall clock", func() {
			seq.Start()

			loop.Tick(at(500 * time.Millisecond))
			Expect(seq.State().ActiveLine).To(Equal(0))

			loop.Tick(at(1500 * time.Millisecond))
			st := seq.State()
			Expect(st.ActiveLine).To(Equal(1))
			Expect(st.Lines[0]).To(Equal("Deploy sites"))
			Expect(st.CursorVisible).To(BeFalse())

			loop.Tick(at(3100 * time.Millisecond))
			st = seq.State()
			Expect(st.CursorVisible).To(BeTrue())
			Expect(st.Lines).To(Equal([]string{"Deploy sites", "GLOBAL EDGE"}))
			Expect(seq.Phase()).To(Equal(sequencer.PhaseSettled))
			Expect(loop.Pending()).To(BeZero())
		})

		It("settles with the exact texts when driven at a steady frame rate", func() {
			seq.Start()
			loop.Drain(clock.now, 16*time.Millisecond, 1000)

			st := seq.State()
			Expect(st.Lines).To(Equal([]string{"Deploy sites", "GLOBAL EDGE"}))
			Expect(st.ActiveLine).To(Equal(1))
			Expect(st.CursorVisible).To(BeTrue())
		})

		It("keeps spaces in place on every frame", func() {
			var frames []sequencer.State
			seq.AddObserver(sequencer.ObserverFunc(func(_ time.Time, st sequencer.State) {
				frames = append(frames, st)
			}))
			seq.Start()
			loop.Drain(clock.now, 16*time.Millisecond, 1000)

			Expect(frames).NotTo(BeEmpty())
			for _, st := range frames {
				for i, line := range st.Lines {
					if line == "" {
						continue
					}
					want := []rune(steps[i].Text)
					got := []rune(line)
					Expect(got).To(HaveLen(len(want)))
					for j, r := range want {
						if r == ' ' {
							Expect(got[j]).To(Equal(' '))
						}
					}
				}
			}
		})

		It("supersedes a run that is still in flight", func() {
			seq.Start()
			loop.Tick(at(500 * time.Millisecond))
			loop.Tick(at(1500 * time.Millisecond))
			Expect(seq.State().ActiveLine).To(Equal(1))
			Expect(loop.Pending()).To(Equal(2))

			clock.now = at(1600 * time.Millisecond)
			seq.Start()
			Expect(seq.RunID()).To(Equal(uint64(2)))

			var mutations []sequencer.State
			seq.AddObserver(sequencer.ObserverFunc(func(_ time.Time, st sequencer.State) {
				mutations = append(mutations, st)
			}))

			loop.Tick(at(1700 * time.Millisecond))
			st := seq.State()
			Expect(st.ActiveLine).To(Equal(0))
			Expect(st.Lines).To(Equal([]string{"", ""}))
			Expect(st.CursorVisible).To(BeFalse())
			Expect(mutations).To(HaveLen(1))
			Expect(mutations[0].ActiveLine).To(Equal(0))

			loop.Drain(at(1700*time.Millisecond), 16*time.Millisecond, 1000)
			Expect(seq.State().CursorVisible).To(BeTrue())
		})

		It("is driven by the enter hooks", func() {
			seq.OnEnter()
			Expect(seq.RunID()).To(Equal(uint64(1)))
			seq.OnEnterBack()
			Expect(seq.RunID()).To(Equal(uint64(2)))
			Expect(seq.Phase()).To(Equal(sequencer.PhaseRunning))
		})
	})

	Describe("Stop", func() {
		It("freezes displayed text and drops queued frames", func() {
			seq.Start()
			loop.Tick(at(500 * time.Millisecond))
			loop.Tick(at(600 * time.Millisecond))
			before := seq.State()

			seq.Stop()
			Expect(seq.Phase()).To(Equal(sequencer.PhaseIdle))

			loop.Drain(at(600*time.Millisecond), 16*time.Millisecond, 1000)
			Expect(seq.State()).To(Equal(before))
			Expect(loop.Pending()).To(BeZero())
		})

		It("is idempotent", func() {
			Expect(func() {
				seq.Stop()
				seq.Stop()
				seq.Start()
				seq.Stop()
				seq.Stop()
			}).NotTo(Panic())
			Expect(seq.Phase()).To(Equal(sequencer.PhaseIdle))
		})
	})

	Describe("reduced motion", func() {
		BeforeEach(func() { reduced = true })

		It("shows final text immediately without scheduling frames", func() {
			seq.Start()
			st := seq.State()
			Expect(st.Lines).To(Equal([]string{"Deploy sites", "GLOBAL EDGE"}))
			Expect(st.ActiveLine).To(Equal(len(steps) - 1))
			Expect(st.CursorVisible).To(BeFalse())
			Expect(seq.Phase()).To(Equal(sequencer.PhaseStatic))
			Expect(loop.Pending()).To(BeZero())
		})

		It("checks the preference on every start", func() {
			seq.Start()
			Expect(seq.Phase()).To(Equal(sequencer.PhaseStatic))

			reduced = false
			seq.Start()
			Expect(seq.Phase()).To(Equal(sequencer.PhaseRunning))
			Expect(loop.Pending()).To(Equal(1))
		})
	})

	Describe("short steps", func() {
		BeforeEach(func() {
			steps = []scramble.Step{
				scramble.NewStep("ab", "x", 50*time.Millisecond),
			}
		})

		It("waits for the clamped reveal budget before showing the cursor", func() {
			seq.Start()
			loop.Tick(at(0))
			loop.Tick(at(100 * time.Millisecond))
			Expect(seq.State().CursorVisible).To(BeFalse())

			loop.Tick(at(200 * time.Millisecond))
			Expect(seq.State().Lines[0]).To(Equal("ab"))
			Expect(seq.State().CursorVisible).To(BeTrue())
		})
	})

	Describe("Progress", func() {
		It("tracks the timeline", func() {
			Expect(seq.Progress(at(0))).To(BeZero())
			seq.Start()
			Expect(seq.Progress(at(1500 * time.Millisecond))).To(BeNumerically("~", 0.5, 1e-9))
			Expect(seq.Progress(at(10 * time.Second))).To(Equal(1.0))
		})
	})
})
