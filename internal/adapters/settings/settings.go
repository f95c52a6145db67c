// Package settings loads the configuration of devpipe itself.
package settings

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// defaultSettings is the base layer applied before config.toml and drop-in files.
//
//go:embed defaults.toml
var defaultSettings string

// DropInDirName is the directory of drop-in files next to config.toml.
const DropInDirName = domain.SettingsFileName + ".d"

type settingsDTO struct {
	ProfilesFile *string `toml:"profiles-file"`
	OverridesDir *string `toml:"overrides-dir"`
	LogLevel     *string `toml:"log-level"`
	LogFormat    *string `toml:"log-format"`
}

// Source describes where settings are read from.
type Source struct {
	Home      string
	Path      string
	DropInDir string
}

// NewSource returns the standard layout below home.
func NewSource(home string) *Source {
	return &Source{
		Home:      home,
		Path:      filepath.Join(home, domain.SettingsFileName),
		DropInDir: filepath.Join(home, DropInDirName),
	}
}

// Load reads settings from the standard layout below home.
func Load(home string) (*domain.Settings, error) {
	return NewSource(home).Read()
}

// Read merges the embedded defaults, the settings file and the drop-in files,
// in that order. A missing file is skipped; a malformed one is an error.
func (s *Source) Read() (*domain.Settings, error) {
	resolved := &domain.Settings{Home: s.Home}

	dto, err := parseDTO(defaultSettings, "defaults.toml")
	if err != nil {
		return nil, err
	}
	update(resolved, dto)

	paths := []string{s.Path}
	dropIns, err := s.findDropInFiles()
	if err != nil {
		return nil, err
	}
	paths = append(paths, dropIns...)

	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // path is below the devpipe home
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		dto, err := parseDTO(string(data), path)
		if err != nil {
			return nil, err
		}
		update(resolved, dto)
	}

	if err := s.finish(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *Source) finish(resolved *domain.Settings) error {
	resolved.ProfilesFile = s.abs(resolved.ProfilesFile)
	resolved.OverridesDir = s.abs(resolved.OverridesDir)

	switch resolved.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return zerr.With(zerr.Wrap(domain.ErrSettingsParseFailed, "unknown log level"),
			"log-level", resolved.LogLevel)
	}
	switch resolved.LogFormat {
	case "pretty", "json":
	default:
		return zerr.With(zerr.Wrap(domain.ErrSettingsParseFailed, "unknown log format"),
			"log-format", resolved.LogFormat)
	}
	return nil
}

func (s *Source) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Home, path)
}

func (s *Source) findDropInFiles() ([]string, error) {
	entries, err := os.ReadDir(s.DropInDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", s.DropInDir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		paths = append(paths, filepath.Join(s.DropInDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func update(s *domain.Settings, dto settingsDTO) {
	if dto.ProfilesFile != nil {
		s.ProfilesFile = *dto.ProfilesFile
	}
	if dto.OverridesDir != nil {
		s.OverridesDir = *dto.OverridesDir
	}
	if dto.LogLevel != nil {
		s.LogLevel = strings.ToLower(*dto.LogLevel)
	}
	if dto.LogFormat != nil {
		s.LogFormat = strings.ToLower(*dto.LogFormat)
	}
}

func parseDTO(data, path string) (settingsDTO, error) {
	var dto settingsDTO
	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, zerr.With(zerr.Wrap(domain.ErrSettingsParseFailed, err.Error()), "path", path)
	}
	return dto, nil
}
