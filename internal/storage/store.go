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

	"github.com/san-kum/particlelife/internal/config"
	"github.com/san-kum/particlelife/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "metrics.csv"
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

// RunMetadata describes a recorded run: the configuration it was started
// with and the summary metrics it produced. The particle population itself
// is not stored.
type RunMetadata struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Timestamp        time.Time          `json:"timestamp"`
	Seed             uint64             `json:"seed"`
	Count            int                `json:"count"`
	M                int                `json:"m"`
	Dt               float64            `json:"dt"`
	FrictionHalfLife float64            `json:"friction_half_life"`
	RMax             float64            `json:"r_max"`
	ForceFactor      float64            `json:"force_factor"`
	Beta             float64            `json:"beta"`
	Layout           string             `json:"layout"`
	NoiseScale       float64            `json:"noise_scale,omitempty"`
	Rules            [][]float64        `json:"rules"`
	Ticks            int                `json:"ticks"`
	TicksPerSecond   float64            `json:"ticks_per_second"`
	Metrics          map[string]float64 `json:"metrics"`
}

// NewMetadata fills the configuration part of a run record. rules is the
// matrix actually used, which differs from cfg.Rules when it was drawn.
func NewMetadata(name string, cfg *config.Config, rules [][]float64) RunMetadata {
	return RunMetadata{
		Name:             name,
		Seed:             cfg.Seed,
		Count:            cfg.Count,
		M:                cfg.M,
		Dt:               cfg.Dt,
		FrictionHalfLife: cfg.FrictionHalfLife,
		RMax:             cfg.RMax,
		ForceFactor:      cfg.ForceFactor,
		Beta:             cfg.Beta,
		Layout:           cfg.Layout,
		NoiseScale:       cfg.NoiseScale,
		Rules:            rules,
	}
}

// Config rebuilds the configuration of a recorded run. Because rules are
// stored and particles are placed from the seed before the matrix is drawn,
// NewSimulation on the result reproduces the run's initial population.
func (m RunMetadata) Config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Count = m.Count
	cfg.M = m.M
	cfg.Dt = m.Dt
	cfg.FrictionHalfLife = m.FrictionHalfLife
	cfg.RMax = m.RMax
	cfg.ForceFactor = m.ForceFactor
	cfg.Beta = m.Beta
	cfg.Layout = m.Layout
	cfg.NoiseScale = m.NoiseScale
	cfg.Seed = m.Seed
	cfg.Ticks = m.Ticks
	cfg.Rules = m.Rules
	return cfg
}

// Save writes meta and the result's metric series under a new run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.TicksPerSecond = result.TicksPerSecond()
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
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

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := seriesNames(result.Series)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			val := 0.0
			if i < len(result.Series[name]) {
				val = result.Series[name][i]
			}
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads back the per-tick metric series of a run.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: read series %s: %w", runID, err)
	}

	series := make(map[string][]float64)
	if len(records) < 2 {
		return []float64{}, series, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: bad time %q: %w", record[0], err)
		}
		times = append(times, t)

		for j, name := range header[1:] {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: bad %s value %q: %w", name, record[j+1], err)
			}
			series[name] = append(series[name], val)
		}
	}

	return times, series, nil
}
