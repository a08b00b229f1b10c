package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	rngFile      = "rng.zst"
	entitiesFile = "entities.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Config     string    `json:"config"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       uint32    `json:"seed"`
	Ticks      uint64    `json:"ticks"`
	Threads    int       `json:"threads"`
	Method     string    `json:"method,omitempty"`
	Backend    string    `json:"backend"`
	Categories []string  `json:"categories"`
}

// EntityRecord is one row of entities.csv.
type EntityRecord struct {
	ID   string  `csv:"id"`
	Type string  `csv:"type"`
	X    float64 `csv:"x"`
	Y    float64 `csv:"y"`
}

// Run is everything persisted for one experiment.
type Run struct {
	Metadata RunMetadata
	RNGState []byte
	Entities []EntityRecord
}

// Save writes run under a fresh id, which is returned. Metadata.ID and
// Metadata.Timestamp are filled in when empty.
func (s *Store) Save(run Run) (string, error) {
	meta := run.Metadata
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", fmt.Errorf("storage: metadata: %w", err)
	}

	if run.RNGState != nil {
		if err := writeFile(filepath.Join(runDir, rngFile), func(w io.Writer) error {
			enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
			if err != nil {
				return err
			}
			if _, err := enc.Write(run.RNGState); err != nil {
				enc.Close()
				return err
			}
			return enc.Close()
		}); err != nil {
			return "", fmt.Errorf("storage: rng checkpoint: %w", err)
		}
	}

	if len(run.Entities) > 0 {
		f, err := os.Create(filepath.Join(runDir, entitiesFile))
		if err != nil {
			return "", fmt.Errorf("storage: entities: %w", err)
		}
		defer f.Close()
		if err := gocsv.Marshal(run.Entities, f); err != nil {
			return "", fmt.Errorf("storage: entities: %w", err)
		}
	}
	return meta.ID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) open(runID, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrRunNotFound, runID, name)
	}
	return f, err
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	f, err := s.open(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta RunMetadata
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadRNGState returns the decompressed registry checkpoint of a run.
func (s *Store) LoadRNGState(runID string) ([]byte, error) {
	f, err := s.open(runID, rngFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("storage: %s rng checkpoint: %w", runID, err)
	}
	return data, nil
}

func (s *Store) LoadEntities(runID string) ([]EntityRecord, error) {
	f, err := s.open(runID, entitiesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []EntityRecord
	if err := gocsv.UnmarshalFile(f, &out); err != nil {
		return nil, fmt.Errorf("storage: %s entities: %w", runID, err)
	}
	return out, nil
}
