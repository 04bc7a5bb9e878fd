package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/bhsim/internal/dynamo"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
)

var header = []string{"time", "kinetic", "potential", "px", "py", "visits", "nodes", "depth", "dropped"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a finished run. Particle state is never stored,
// so a run can be inspected but not resumed.
type RunMetadata struct {
	ID         string             `json:"id"`
	Generator  string             `json:"generator"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Particles  int                `json:"particles"`
	Seed       int64              `json:"seed"`
	Steps      int                `json:"steps"`
	Dt         float64            `json:"dt"`
	G          float64            `json:"g"`
	Theta      float64            `json:"theta"`
	Damping    float64            `json:"damping"`
	Bounds     dynamo.Rect        `json:"bounds"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Sample is one diagnostics row.
type Sample struct {
	Time      float64 `json:"time"`
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Px        float64 `json:"px"`
	Py        float64 `json:"py"`
	Visits    int     `json:"visits"`
	Nodes     int     `json:"nodes"`
	Depth     int     `json:"depth"`
	Dropped   int     `json:"dropped"`
}

func (s Sample) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		f(s.Time), f(s.Kinetic), f(s.Potential), f(s.Px), f(s.Py),
		strconv.Itoa(s.Visits), strconv.Itoa(s.Nodes), strconv.Itoa(s.Depth), strconv.Itoa(s.Dropped),
	}
}

func parseSample(record []string) (Sample, error) {
	if len(record) != len(header) {
		return Sample{}, fmt.Errorf("expected %d fields, got %d", len(header), len(record))
	}
	var fs [5]float64
	for i := range fs {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%s: %w", header[i], err)
		}
		fs[i] = v
	}
	var is [4]int
	for i := range is {
		v, err := strconv.Atoi(record[5+i])
		if err != nil {
			return Sample{}, fmt.Errorf("%s: %w", header[5+i], err)
		}
		is[i] = v
	}
	return Sample{
		Time: fs[0], Kinetic: fs[1], Potential: fs[2], Px: fs[3], Py: fs[4],
		Visits: is[0], Nodes: is[1], Depth: is[2], Dropped: is[3],
	}, nil
}

// NewID returns a fresh run id of the form <generator>_<8 hex digits>.
func NewID(generator string) string {
	return fmt.Sprintf("%s_%s", generator, uuid.NewString()[:8])
}

// Save writes meta and series under a new run directory and returns the
// run id. meta.ID and meta.Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, series []Sample) (string, error) {
	if meta.ID == "" {
		meta.ID = NewID(meta.Generator)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, diagnosticsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, sample := range series {
		if err := w.Write(sample.record()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	series := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", diagnosticsFile, i+1, err)
		}
		series = append(series, sample)
	}
	return series, nil
}
