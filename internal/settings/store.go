package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/clambin/alarmclock/internal/pubsub"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrAbsent indicates that no usable settings were found. The wrapped error gives the reason.
var ErrAbsent = errors.New("no settings found")

// Store holds the current Settings. It is safe for concurrent use: a single writer replaces the settings as a whole,
// while any number of readers take snapshots. Readers never observe a partially updated value.
//
// Subscribers receive each new value after it has been stored.
type Store struct {
	*pubsub.Publisher[Settings]
	path    string
	current atomic.Pointer[Settings]
	logger  *slog.Logger
}

// NewStore returns a Store initialized from the settings file at path. If the file is missing or invalid,
// the store starts with Default settings.
func NewStore(path string, logger *slog.Logger) *Store {
	s := Store{
		Publisher: pubsub.New[Settings](logger.With(slog.String("component", "publisher"))),
		path:      path,
		logger:    logger,
	}
	current, err := Load(path)
	if err != nil {
		logger.Warn("failed to load settings. using defaults", "path", path, "err", err)
		current = Default()
	} else {
		logger.Info("settings loaded", "path", path)
	}
	s.current.Store(&current)
	return &s
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() Settings {
	return *s.current.Load()
}

// Replace swaps in new settings and notifies all subscribers.
func (s *Store) Replace(settings Settings) {
	s.current.Store(&settings)
	s.Publish(settings)
}

// Persist writes the current settings to the store's file.
func (s *Store) Persist() error {
	if err := Save(s.path, s.Get()); err != nil {
		s.logger.Error("failed to save settings", "path", s.path, "err", err)
		return err
	}
	s.logger.Debug("settings saved", "path", s.path)
	return nil
}

// Load reads the settings file at path. All failures (missing file, invalid content) return an error wrapping ErrAbsent.
func Load(path string) (Settings, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrAbsent, err)
	}
	var s Settings
	if err = json.Unmarshal(body, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrAbsent, err)
	}
	if err = s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrAbsent, err)
	}
	return s, nil
}

// Save overwrites the settings file at path. The new content is written to a temporary file first,
// so a crash while saving leaves the previous file intact.
func Save(path string, settings Settings) error {
	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	tmp := f.Name()
	if _, err = f.Write(body); err == nil {
		err = f.Close()
	} else {
		_ = f.Close()
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
