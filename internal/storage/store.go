package storage

import (
	"bytes"
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

	"github.com/DataDog/zstd"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sim"
	"github.com/san-kum/fizz/internal/sph"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
	particlesFile   = "particles.csv"
	compressedExt   = ".zst"
	gridFile        = "grid.yaml"
)

// ErrDimension is returned when a stored run was written by a build with a
// different spatial dimension.
var ErrDimension = errors.New("storage: run has a different dimension")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string

	// Compress writes the particle snapshot as particles.csv.zst.
	Compress bool
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Dim         int                `json:"dim"`
	Params      sph.Parameters     `json:"params"`
	Scenario    config.Scenario    `json:"scenario"`
	Steps       int                `json:"steps"`
	StepsTaken  int                `json:"steps_taken"`
	SampleEvery int                `json:"sample_every"`
	SimTime     float64            `json:"sim_time"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a finished run: metadata, the diagnostics rows, the final
// particle state and the neighbor grid.
func (s *Store) Save(cfg *config.Config, simulation *sph.Simulation, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        cfg.Name,
		Timestamp:   now,
		Dim:         base.Dim,
		Params:      simulation.Params,
		Scenario:    cfg.Scenario,
		Steps:       cfg.Steps,
		StepsTaken:  result.StepsTaken,
		SampleEvery: cfg.SampleEvery,
		SimTime:     simulation.Time,
		Metrics:     result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSVFile(filepath.Join(runDir, diagnosticsFile), func(w *csv.Writer) error {
		return WriteDiagnostics(w, result.Rows)
	}); err != nil {
		return "", err
	}
	if err := s.writeParticlesFile(filepath.Join(runDir, particlesFile), simulation.Particles); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(simulation.Grid())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, gridFile), data, 0644); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

func (s *Store) LoadDiagnostics(runID string) ([]metrics.Row, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	rows := make([]metrics.Row, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("storage: diagnostics row %d: %w", i+1, err)
		}
		rows = append(rows, metrics.RowFromValues(vals))
	}
	return rows, nil
}

// LoadParticles reads back the final particle state of a run.
func (s *Store) LoadParticles(runID string) (*sph.Particles, error) {
	path := filepath.Join(s.baseDir, runID, particlesFile)
	records, err := readCSV(path)
	if errors.Is(err, os.ErrNotExist) {
		records, err = readCompressedCSV(path + compressedExt)
	}
	if err != nil {
		return nil, err
	}
	p := sph.NewParticles(0)
	for i, rec := range records {
		if len(rec) != len(particleHeader()) {
			return nil, fmt.Errorf("%w: particle row %d has %d fields", ErrDimension, i+1, len(rec))
		}
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("storage: particle row %d: %w", i+1, err)
		}
		var x, v, f base.Vec
		copy(x[:], vals[3:3+base.Dim])
		copy(v[:], vals[3+base.Dim:3+2*base.Dim])
		copy(f[:], vals[3+2*base.Dim:])
		p.Add(vals[0], x, v)
		p.Density[i] = vals[1]
		p.Pressure[i] = vals[2]
		p.Force[i] = f
	}
	return p, nil
}

func (s *Store) LoadGrid(runID string) (base.Grid, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, gridFile))
	if err != nil {
		return base.Grid{}, err
	}
	var g base.Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return base.Grid{}, err
	}
	return g, nil
}

func particleHeader() []string {
	h := []string{"mass", "density", "pressure"}
	for _, prefix := range []string{"x", "v", "f"} {
		for a := 0; a < base.Dim; a++ {
			h = append(h, fmt.Sprintf("%s%d", prefix, a))
		}
	}
	return h
}

// WriteParticles writes one CSV row per particle after a header.
func WriteParticles(w *csv.Writer, p *sph.Particles) error {
	if err := w.Write(particleHeader()); err != nil {
		return err
	}
	for i := 0; i < p.Len(); i++ {
		row := []string{formatFloat(p.Mass[i]), formatFloat(p.Density[i]), formatFloat(p.Pressure[i])}
		for _, vec := range []base.Vec{p.Position[i], p.Velocity[i], p.Force[i]} {
			for _, c := range vec {
				row = append(row, formatFloat(c))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteDiagnostics writes the rows under a metrics.Columns header.
func WriteDiagnostics(w *csv.Writer, rows []metrics.Row) error {
	if err := w.Write(metrics.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		vals := r.Values()
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = formatFloat(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloats(rec []string) ([]float64, error) {
	vals := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
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

func writeCSVFile(path string, write func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(csv.NewWriter(f))
}

func (s *Store) writeParticlesFile(path string, p *sph.Particles) error {
	if !s.Compress {
		return writeCSVFile(path, func(w *csv.Writer) error { return WriteParticles(w, p) })
	}
	var buf bytes.Buffer
	if err := WriteParticles(csv.NewWriter(&buf), p); err != nil {
		return err
	}
	data, err := zstd.CompressLevel(nil, buf.Bytes(), zstd.DefaultCompression)
	if err != nil {
		return fmt.Errorf("storage: compress particles: %w", err)
	}
	return os.WriteFile(path+compressedExt, data, 0644)
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func readCompressedCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := zstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("storage: decompress %s: %w", filepath.Base(path), err)
	}
	return parseCSV(bytes.NewReader(raw))
}

func parseCSV(rd io.Reader) ([][]string, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
