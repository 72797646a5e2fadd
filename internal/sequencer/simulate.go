package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/scramble/internal/scramble"
)

// Epoch is the virtual start time used by Simulate.
var Epoch = time.Unix(0, 0).UTC()

type SimResult struct {
	State   State
	Phase   Phase
	Elapsed time.Duration
	Frames  uint64
}

// Simulate plays steps to completion on a virtual clock ticking every
// interval, without waiting in real time. Observers passed in opts see
// every frame. It stops early when ctx is done.
func Simulate(ctx context.Context, steps []scramble.Step, interval time.Duration, opts ...Option) (*SimResult, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sequencer: interval must be positive, got %v", interval)
	}

	loop := NewFrameLoop()
	opts = append(opts, WithClock(func() time.Time { return Epoch }))
	seq, err := New(steps, loop, opts...)
	if err != nil {
		return nil, err
	}

	_, total := scramble.Timeline(steps)
	limit := int((total+scramble.MinDuration)/interval) + 2*len(steps) + 16

	seq.Start()
	now := Epoch
	for i := 0; i < limit && loop.Pending() > 0; i++ {
		select {
		case <-ctx.Done():
			seq.Stop()
			return nil, ctx.Err()
		default:
		}
		now = now.Add(interval)
		loop.Tick(now)
	}
	if loop.Pending() > 0 {
		seq.Stop()
		return nil, fmt.Errorf("sequencer: run did not settle within %d frames", limit)
	}

	return &SimResult{
		State:   seq.State(),
		Phase:   seq.Phase(),
		Elapsed: now.Sub(Epoch),
		Frames:  loop.Frames(),
	}, nil
}
