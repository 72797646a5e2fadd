// Package scramble computes the frames of a scramble-reveal text effect.
//
// A [Step] describes one line of text, the runes used as random
// substitutes and the time budget for revealing it. The [Engine] turns an
// elapsed duration into the string that should be displayed at that
// moment:
//
//   - characters left of the reveal edge show the target text
//   - a narrow jitter band just behind the edge may still flicker
//   - characters right of the edge are drawn uniformly from the set
//   - spaces never scramble, so word boundaries stay put
//
// # Example
//
//	eng := scramble.NewEngine(rand.New(rand.NewPCG(1, 2)))
//	step := scramble.Step{Text: "AUTOMATED BACKUPS", Chars: scramble.UpperCase, Duration: time.Second}
//	frame, ok := eng.Frame(step, 400*time.Millisecond, run, run)
//
// # Cancellation
//
// Every call carries the run ID that was captured when the animation was
// scheduled together with the live counter. A mismatch yields ok == false
// and the caller must stop scheduling frames for that line.
package scramble
