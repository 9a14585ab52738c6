// Package store loads and saves code-table overrides kept in YAML files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/edi835-csv/internal/elements"
	"fjacquet/edi835-csv/internal/fileutils"
	"fjacquet/edi835-csv/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultCodesFile is the override file name looked up when none is configured.
const DefaultCodesFile = "codes.yaml"

// Overrides maps a table name to code descriptions.
type Overrides map[string]map[string]string

// codesFile is the on-disk layout of an override file.
type codesFile struct {
	Tables Overrides `yaml:"tables"`
}

// CodeSource provides code-table overrides.
type CodeSource interface {
	LoadOverrides() (Overrides, error)
}

// CodeStore manages loading and saving of code-table overrides.
type CodeStore struct {
	File   string
	logger logging.Logger
}

// NewCodeStore creates a store reading file. An empty file name uses DefaultCodesFile.
func NewCodeStore(file string, logger logging.Logger) *CodeStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", logging.FormatText)
	}
	return &CodeStore{File: file, logger: logger}
}

func (s *CodeStore) filename() string {
	if s.File == "" {
		return DefaultCodesFile
	}
	return s.File
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CodeStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// ~/.config/edi835-csv/
	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "edi835-csv", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadOverrides reads the override file. A missing file yields no overrides.
func (s *CodeStore) LoadOverrides() (Overrides, error) {
	path, err := s.FindConfigFile(s.filename())
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No code override file found", logging.F(logging.FieldFile, s.filename()))
		return Overrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving code override file: %w", err)
	}

	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading code override file: %w", err)
	}

	overrides, err := parseOverrides(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing code override file %s: %w", path, err)
	}

	count := 0
	for _, entries := range overrides {
		count += len(entries)
	}
	s.logger.Info("Loaded code overrides",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, count))
	return overrides, nil
}

// parseOverrides accepts either a document with a top-level tables key or a bare
// table-to-codes map.
func parseOverrides(data []byte) (Overrides, error) {
	var doc codesFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Tables) > 0 {
		return doc.Tables, nil
	}

	var bare Overrides
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	delete(bare, "tables")
	if bare == nil {
		bare = Overrides{}
	}
	return bare, nil
}

// SaveOverrides writes overrides to the store's file, creating parent directories.
func (s *CodeStore) SaveOverrides(overrides Overrides) error {
	path, err := s.FindConfigFile(s.filename())
	if errors.Is(err, os.ErrNotExist) {
		path = s.filename()
	} else if err != nil {
		return fmt.Errorf("error resolving code override file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := yaml.Marshal(codesFile{Tables: overrides})
	if err != nil {
		return fmt.Errorf("error marshaling code overrides: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing code overrides: %w", err)
	}

	s.logger.Debug("Saved code overrides",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(overrides)))
	return nil
}

// Tables merges the loaded overrides into base.
func Tables(source CodeSource, base *elements.Tables) (*elements.Tables, error) {
	if base == nil {
		base = elements.DefaultTables()
	}
	overrides, err := source.LoadOverrides()
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return base, nil
	}
	return base.WithOverrides(overrides), nil
}

// Export converts tables into the override layout, one entry per code.
func Export(tables *elements.Tables) Overrides {
	out := make(Overrides)
	for _, name := range tables.Names() {
		table := tables.Get(name)
		entries := make(map[string]string, table.Len())
		for _, code := range table.Codes() {
			description, _ := table.Lookup(code)
			entries[code] = description
		}
		out[name] = entries
	}
	return out
}
