package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/scramble/internal/scramble"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type StepMetadata struct {
	ID       string  `json:"id,omitempty"`
	Text     string  `json:"text"`
	Chars    string  `json:"chars"`
	Duration float64 `json:"duration"`
	Speed    float64 `json:"speed"`
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          uint64             `json:"seed"`
	FPS           int                `json:"fps"`
	ReducedMotion bool               `json:"reduced_motion"`
	Duration      float64            `json:"duration"`
	Samples       int                `json:"samples"`
	Settled       bool               `json:"settled"`
	TotalChars    int                `json:"total_chars"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
	Steps         []StepMetadata     `json:"steps"`
}

// NewMetadata describes a recording of steps.
func NewMetadata(label string, steps []scramble.Step, seed uint64, fps int) RunMetadata {
	meta := RunMetadata{
		Label: label,
		Seed:  seed,
		FPS:   fps,
		Steps: make([]StepMetadata, len(steps)),
	}
	for i, st := range steps {
		meta.Steps[i] = StepMetadata{
			ID:       st.ID,
			Text:     st.Text,
			Chars:    st.Chars,
			Duration: st.Duration.Seconds(),
			Speed:    st.Speed,
		}
	}
	return meta
}

// Save writes a run directory holding metadata.json and frames.csv and
// returns the generated run ID.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	now := time.Now()
	label := meta.Label
	if label == "" {
		label = "run"
	}
	runID := fmt.Sprintf("%s_%d_%s", label, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Samples = len(samples)
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		meta.Duration = last.Time
		meta.Settled = last.CursorVisible
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), len(meta.Steps), samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, lines int, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time", "active", "cursor", "revealed"}
	for i := 0; i < lines; i++ {
		header = append(header, fmt.Sprintf("line%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.Itoa(smp.ActiveLine),
			strconv.FormatBool(smp.CursorVisible),
			strconv.Itoa(smp.Revealed),
		}
		for i := 0; i < lines; i++ {
			if i < len(smp.Lines) {
				row = append(row, smp.Lines[i])
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns all readable runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 4 {
			continue
		}
		smp := Sample{Lines: append([]string(nil), rec[4:]...)}
		if smp.Time, err = strconv.ParseFloat(rec[0], 64); err != nil {
			return nil, fmt.Errorf("frames row %d: %w", i+1, err)
		}
		if smp.ActiveLine, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("frames row %d: %w", i+1, err)
		}
		if smp.CursorVisible, err = strconv.ParseBool(rec[2]); err != nil {
			return nil, fmt.Errorf("frames row %d: %w", i+1, err)
		}
		if smp.Revealed, err = strconv.Atoi(rec[3]); err != nil {
			return nil, fmt.Errorf("frames row %d: %w", i+1, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Frames   []Sample    `json:"frames"`
}

// ExportJSON writes a run and all of its frames to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Metadata: *meta, Frames: frames})
}
