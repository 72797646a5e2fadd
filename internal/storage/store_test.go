package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/scramble/internal/scramble"
	"github.com/san-kum/scramble/internal/sequencer"
)

func testSteps() []scramble.Step {
	return []scramble.Step{
		scramble.NewStep("Free SSL, DDoS protection,", "0123456789", time.Second),
		scramble.NewStep("AUTOMATED BACKUPS", scramble.UpperCase, 500*time.Millisecond),
	}
}

func recordRun(t *testing.T, steps []scramble.Step) *Recorder {
	t.Helper()
	loop := sequencer.NewFrameLoop()
	rec := NewRecorder(steps)
	start := time.Unix(0, 0)

	seq, err := sequencer.New(steps, loop,
		sequencer.WithClock(func() time.Time { return start }),
		sequencer.WithEngine(scramble.NewEngine(rand.New(rand.NewPCG(3, 4)))),
		sequencer.WithObserver(rec),
	)
	if err != nil {
		t.Fatalf("sequencer: %v", err)
	}
	seq.Start()
	loop.Drain(start, 20*time.Millisecond, 1000)
	return rec
}

func TestRecorderCapturesRun(t *testing.T) {
	rec := recordRun(t, testSteps())
	samples := rec.Samples()

	if len(samples) < 10 {
		t.Fatalf("expected many samples, got %d", len(samples))
	}
	if samples[0].Time != 0 {
		t.Errorf("first sample at %f", samples[0].Time)
	}

	last := samples[len(samples)-1]
	if !last.CursorVisible {
		t.Error("expected settled last sample")
	}
	if last.Revealed != rec.Total() {
		t.Errorf("expected %d revealed, got %d", rec.Total(), last.Revealed)
	}

	for i := 1; i < len(samples); i++ {
		if samples[i].Time < samples[i-1].Time {
			t.Fatalf("sample %d goes back in time", i)
		}
	}
}

func TestRecorderRevealedCount(t *testing.T) {
	rec := NewRecorder([]scramble.Step{scramble.NewStep("a b", "x", time.Second)})

	if rec.Total() != 2 {
		t.Errorf("expected total 2, got %d", rec.Total())
	}
	if got := rec.revealed([]string{"x x"}); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := rec.revealed([]string{"a x"}); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := rec.revealed([]string{"a b", "extra"}); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	steps := testSteps()
	rec := recordRun(t, steps)
	meta := NewMetadata("hosting", steps, 42, 50)
	meta.TotalChars = rec.Total()
	meta.Metrics = map[string]float64{"settle_time": 1.5, "flicker": 2.25}

	runID, err := st.Save(meta, rec.Samples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Label != "hosting" {
		t.Errorf("expected label 'hosting', got '%s'", loaded.Label)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if !loaded.Settled {
		t.Error("expected settled run")
	}
	if diff := cmp.Diff(meta.Steps, loaded.Steps); diff != "" {
		t.Errorf("steps changed after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(meta.Metrics, loaded.Metrics); diff != "" {
		t.Errorf("metrics changed after round trip (-want +got):\n%s", diff)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != len(rec.Samples()) {
		t.Fatalf("expected %d frames, got %d", len(rec.Samples()), len(frames))
	}
	last := frames[len(frames)-1]
	if last.Lines[0] != steps[0].Text {
		t.Errorf("csv round trip lost text: %q", last.Lines[0])
	}
	if last.Revealed != rec.Total() {
		t.Errorf("expected %d revealed, got %d", rec.Total(), last.Revealed)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	meta := NewMetadata("", testSteps(), 1, 60)
	if _, err := st.Save(meta, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(meta, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(NewMetadata("test", testSteps(), 1, 60), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "frames.csv")); os.IsNotExist(err) {
		t.Error("frames.csv not created")
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	steps := testSteps()
	rec := recordRun(t, steps)
	runID, err := st.Save(NewMetadata("export", steps, 9, 50), rec.Samples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.Metadata.ID)
	}
	if len(data.Frames) != len(rec.Samples()) {
		t.Errorf("expected %d frames, got %d", len(rec.Samples()), len(data.Frames))
	}
}
