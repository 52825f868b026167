// Package storage keeps finished runs on disk: a metadata.json per run plus
// CSV files for the bodies that were built and the probe trace.
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

	"github.com/san-kum/tgsim/internal/controllers"
	"github.com/san-kum/tgsim/internal/geom"
	"github.com/san-kum/tgsim/internal/world"
)

const (
	metadataFile = "metadata.json"
	bodiesFile   = "bodies.csv"
	traceFile    = "trace.csv"
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	World      string             `json:"world"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	SimTime    float64            `json:"sim_time"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

// BodyRecord is a body as it stood right after setup.
type BodyRecord struct {
	Model string
	ID    int
	Spec  world.BodySpec
}

var bodiesHeader = []string{
	"model", "id", "shape", "tag",
	"from_x", "from_y", "from_z", "to_x", "to_y", "to_z",
	"width", "height", "radius",
	"density", "friction", "roll_friction", "restitution",
}

var traceHeader = []string{"step", "time", "x", "y", "z", "vx", "vy", "vz"}

// Save writes a run and returns its ID. meta.ID and meta.Timestamp are
// filled in; meta.Bodies is set from bodies.
func (s *Store) Save(meta RunMetadata, bodies []BodyRecord, trace []controllers.Sample) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Bodies = len(bodies)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(bodies))
	for _, b := range bodies {
		sp := b.Spec
		m := sp.Material
		rows = append(rows, []string{
			b.Model, strconv.Itoa(b.ID), sp.Shape.String(), sp.Tag,
			ff(sp.From.X), ff(sp.From.Y), ff(sp.From.Z), ff(sp.To.X), ff(sp.To.Y), ff(sp.To.Z),
			ff(sp.Width), ff(sp.Height), ff(sp.Radius),
			ff(m.Density), ff(m.Friction), ff(m.RollFriction), ff(m.Restitution),
		})
	}
	if err := writeCSV(filepath.Join(runDir, bodiesFile), bodiesHeader, rows); err != nil {
		return "", err
	}

	rows = make([][]string, 0, len(trace))
	for _, p := range trace {
		rows = append(rows, []string{
			strconv.Itoa(p.Step), ff(p.Time),
			ff(p.Position.X), ff(p.Position.Y), ff(p.Position.Z),
			ff(p.Velocity.X), ff(p.Velocity.Y), ff(p.Velocity.Z),
		})
	}
	if err := writeCSV(filepath.Join(runDir, traceFile), traceHeader, rows); err != nil {
		return "", err
	}

	return runID, nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
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

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Directories without
// valid metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadBodies(runID string) ([]BodyRecord, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, bodiesFile), len(bodiesHeader))
	if err != nil {
		return nil, err
	}

	bodies := make([]BodyRecord, 0, len(records))
	for i, rec := range records {
		id, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("bodies row %d: %w", i+1, err)
		}
		shape, err := world.ParseShape(rec[2])
		if err != nil {
			return nil, fmt.Errorf("bodies row %d: %w", i+1, err)
		}
		v, err := floats(rec[4:])
		if err != nil {
			return nil, fmt.Errorf("bodies row %d: %w", i+1, err)
		}
		bodies = append(bodies, BodyRecord{
			Model: rec[0],
			ID:    id,
			Spec: world.BodySpec{
				Shape:  shape,
				Tag:    rec[3],
				From:   geom.V(v[0], v[1], v[2]),
				To:     geom.V(v[3], v[4], v[5]),
				Width:  v[6],
				Height: v[7],
				Radius: v[8],
				Material: world.Material{
					Density:      v[9],
					Friction:     v[10],
					RollFriction: v[11],
					Restitution:  v[12],
				},
			},
		})
	}
	return bodies, nil
}

func (s *Store) LoadTrace(runID string) ([]controllers.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, traceFile), len(traceHeader))
	if err != nil {
		return nil, err
	}

	trace := make([]controllers.Sample, 0, len(records))
	for i, rec := range records {
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", i+1, err)
		}
		v, err := floats(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("trace row %d: %w", i+1, err)
		}
		trace = append(trace, controllers.Sample{
			Step:     step,
			Time:     v[0],
			Position: geom.V(v[1], v[2], v[3]),
			Velocity: geom.V(v[4], v[5], v[6]),
		})
	}
	return trace, nil
}

// readCSV returns the data rows of a file, without its header.
func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func floats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
