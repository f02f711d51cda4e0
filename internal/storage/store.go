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

	"github.com/sgshea/fluidsim/internal/field"
	"github.com/sgshea/fluidsim/internal/sim"
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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Boundary  string             `json:"boundary"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save persists one completed run: metadata.json with the final metric
// values, history.csv with the per-tick metric series, and dye.csv with
// the final dye field (one CSV row per grid row, bottom row first).
func (s *Store) Save(scene string, width, height int, dt, duration float64, boundary string, result *sim.Result, dye *field.Scalar) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
		Dt:        dt,
		Duration:  duration,
		Boundary:  boundary,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeHistory(runDir, result); err != nil {
		return "", err
	}
	if dye != nil {
		if err := s.writeDye(runDir, dye); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) writeHistory(runDir string, result *sim.Result) error {
	csvFile, err := os.Create(filepath.Join(runDir, "history.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	names := make([]string, 0, len(result.History))
	for name := range result.History {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			series := result.History[name]
			val := 0.0
			if i < len(series) {
				val = series[i]
			}
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeDye(runDir string, dye *field.Scalar) error {
	csvFile, err := os.Create(filepath.Join(runDir, "dye.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	row := make([]string, dye.Width)
	for y := 0; y < dye.Height; y++ {
		for x := 0; x < dye.Width; x++ {
			row[x] = strconv.FormatFloat(dye.At(x, y), 'f', 6, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadHistory reads back the per-tick metric series of a saved run.
func (s *Store) LoadHistory(runID string) (map[string][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "history.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, []float64{}, nil
	}

	names := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	history := make(map[string][]float64, len(names))

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(names)+1 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j, name := range names {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				val = 0
			}
			history[name] = append(history[name], val)
		}
	}

	return history, times, nil
}

// LoadDye reads back the saved dye snapshot as a flat row-major field.
func (s *Store) LoadDye(runID string) ([]float64, int, int, error) {
	csvPath := filepath.Join(s.baseDir, runID, "dye.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(records) == 0 {
		return []float64{}, 0, 0, nil
	}

	width := len(records[0])
	height := len(records)
	data := make([]float64, 0, width*height)
	for _, record := range records {
		for _, cell := range record {
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				val = 0
			}
			data = append(data, val)
		}
	}
	return data, width, height, nil
}
