package metrics

import (
	"time"

	"github.com/san-kum/scramble/internal/sequencer"
)

// SettleTime records seconds from the first frame until the cursor first
// appeared. Value is -1 while the run has not settled.
type SettleTime struct {
	name    string
	origin  time.Time
	started bool
	settled float64
}

func NewSettleTime() *SettleTime {
	return &SettleTime{name: "settle_time", settled: -1}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) OnFrame(now time.Time, st sequencer.State) {
	if !s.started {
		s.origin, s.started = now, true
	}
	if st.CursorVisible && s.settled < 0 {
		s.settled = now.Sub(s.origin).Seconds()
	}
}

func (s *SettleTime) Value() float64 {
	return s.settled
}

func (s *SettleTime) Reset() {
	s.started = false
	s.settled = -1
}
