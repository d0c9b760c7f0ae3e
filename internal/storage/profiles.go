// Package storage provides the durable persistence layer: one JSON document
// per profile, written with atomic replacement.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
)

const (
	profileFileName = "profile.json"
	// DefaultProfile is the profile used when none is named.
	DefaultProfile = "default"
)

// Store persists profiles under a base data directory:
//
//	<base>/profiles/<name>/profile.json
//	<base>/exports/...
//
// The profile file is the single source of truth; exports never touch it.
type Store struct {
	baseDir string
}

// NewStore creates a profile store rooted at baseDir, creating the directory
// layout if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := validateString(baseDir, "baseDir"); err != nil {
		return nil, err
	}
	for _, dir := range []string{profilesDir(baseDir), exportsDir(baseDir)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func profilesDir(base string) string { return filepath.Join(base, "profiles") }
func exportsDir(base string) string  { return filepath.Join(base, "exports") }

func (s *Store) profilePath(name string) string {
	return filepath.Join(profilesDir(s.baseDir), name, profileFileName)
}

// Load reads the named profile. A profile that does not exist yet is created
// empty and persisted, so the default profile always exists after first use.
func (s *Store) Load(ctx context.Context, name string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateProfileName(name); err != nil {
		return nil, err
	}

	path := s.profilePath(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		profile := model.NewProfile(name)
		if err := s.Save(ctx, profile); err != nil {
			return nil, err
		}
		slog.Info("created new profile", "name", name, "path", path)
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	profile := &model.Profile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrProfileCorrupted, path, err)
	}
	if profile.Name == "" {
		profile.Name = name
	}

	slog.Debug("loaded profile",
		"name", name,
		"categories", len(profile.Categories),
		"transactions", len(profile.Transactions))
	return profile, nil
}

// Save durably writes the profile. The document is written to a temporary
// file in the same directory, synced, and renamed over the previous one, so
// a failed save leaves the prior durable state intact.
func (s *Store) Save(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: profile", errNilParameter)
	}
	if err := validateProfileName(profile.Name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile %q: %w", profile.Name, err)
	}
	data = append(data, '\n')

	path := s.profilePath(profile.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := writeFileSync(tmp, data); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace profile %s: %w", path, err)
	}

	slog.Debug("saved profile", "name", profile.Name, "bytes", len(data))
	return nil
}

// writeFileSync writes data and fsyncs before closing, so the rename that
// follows publishes fully written content.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// List returns the names of all stored profiles, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(profilesDir(s.baseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.profilePath(entry.Name())); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateExport opens a new file in the exports directory. The caller owns
// closing it. Export files never collide with profile storage.
func (s *Store) CreateExport(filename string) (*os.File, string, error) {
	if err := validateString(filename, "filename"); err != nil {
		return nil, "", err
	}
	if strings.ContainsAny(filename, `/\`) {
		return nil, "", fmt.Errorf("%w: export filename %q contains a path separator", errInvalidName, filename)
	}

	path := filepath.Join(exportsDir(s.baseDir), filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create export %s: %w", path, err)
	}
	return f, path, nil
}

// ProfilePath returns where the named profile is (or would be) stored.
func (s *Store) ProfilePath(name string) string {
	return s.profilePath(name)
}
