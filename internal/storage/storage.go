package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/pullrefresh/internal/validate"
)

// ErrUnknownCycle is returned when ending a cycle that was never begun.
var ErrUnknownCycle = errors.New("unknown refresh cycle")

// Cycle records one refresh from start to completion.
type Cycle struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	StartedAt   time.Time `json:"started_at" validate:"required"`
	EndedAt     time.Time `json:"ended_at,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
	Items       int       `json:"items" validate:"gte=0"`
	Error       string    `json:"error,omitempty"`
}

// Duration is zero while the cycle is still open.
func (c Cycle) Duration() time.Duration {
	if c.EndedAt.IsZero() {
		return 0
	}
	return c.EndedAt.Sub(c.StartedAt)
}

// Data represents the structure of the history file.
type Data struct {
	SessionID string  `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	Cycles    []Cycle `json:"cycles" validate:"dive"`
}

// Storage handles the loading and saving of the history file.
type Storage struct {
	Path string `validate:"required,filepath"`

	mu   sync.Mutex
	Data Data
}

// NewStorage creates a Storage for path, loading it when the file exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{Cycles: []Cycle{}},
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if s.Data.SessionID == "" {
		s.Data.SessionID = uuid.NewString()
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a
// new one and writes it to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	s, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	if err := s.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading history file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.Cycles == nil {
		s.Data.Cycles = []Cycle{}
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		changed := false
		if s.Data.SessionID == "" || validate.Var(s.Data.SessionID, "uuid4") != nil {
			s.Data.SessionID = uuid.NewString()
			changed = true
		}
		kept := s.Data.Cycles[:0]
		for _, c := range s.Data.Cycles {
			if validate.Struct(c) != nil {
				logrus.Warn("Dropping malformed refresh cycle from history.")
				changed = true
				continue
			}
			kept = append(kept, c)
		}
		s.Data.Cycles = kept
		if changed {
			if err := s.saveLocked(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Save writes the history to the file.
func (s *Storage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Storage) saveLocked() error {
	logrus.Debug("Saving history file to: ", s.Path)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// BeginCycle appends an open cycle and returns its ID. Nothing is written until
// the cycle ends.
func (s *Storage) BeginCycle(orientation string, now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.Data.Cycles = append(s.Data.Cycles, Cycle{ID: id, StartedAt: now, Orientation: orientation})
	return id
}

// EndCycle closes a cycle, trims history to limit entries (0 keeps everything)
// and saves.
func (s *Storage) EndCycle(id string, now time.Time, items int, cycleErr error, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.Data.Cycles {
		if s.Data.Cycles[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownCycle
	}
	c := &s.Data.Cycles[idx]
	c.EndedAt = now
	c.Items = items
	if cycleErr != nil {
		c.Error = cycleErr.Error()
	}
	s.trimLocked(limit)
	return s.saveLocked()
}

// Cycles returns a copy of the recorded cycles, oldest first.
func (s *Storage) Cycles() []Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cycle, len(s.Data.Cycles))
	copy(out, s.Data.Cycles)
	return out
}

// Reset clears the history and starts a new session.
func (s *Storage) Reset() error {
	logrus.Debug("Resetting refresh history")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Data = Data{SessionID: uuid.NewString(), Cycles: []Cycle{}}
	return s.saveLocked()
}

func (s *Storage) trimLocked(limit int) {
	if limit <= 0 || len(s.Data.Cycles) <= limit {
		return
	}
	s.Data.Cycles = append([]Cycle(nil), s.Data.Cycles[len(s.Data.Cycles)-limit:]...)
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
