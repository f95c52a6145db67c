// Package ini reads and writes configuration documents in INI syntax.
package ini

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/ini.v1"
)

func init() {
	ini.DefaultHeader = true
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// loadOptions keeps keys case-sensitive, leaves '#' and ';' inside values alone
// and accepts indented continuation lines. Repeated sections and keys are kept
// apart so that Parse can reject them.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:        true,
	AllowPythonMultilineValues: true,
	PreserveSurroundedQuote:    true,
	AllowNonUniqueSections:     true,
	AllowShadows:               true,
}

// Store implements ports.DocumentStore on top of gopkg.in/ini.v1.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Read parses the document at path. A missing file yields an empty document.
func (s *Store) Read(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewDocument(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	return Parse(path, data)
}

// ReadRequired parses the document at path and fails with domain.ErrMissingFile
// when the file does not exist.
func (s *Store) ReadRequired(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingFile, "configuration file not found"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	return Parse(path, data)
}

// Parse converts INI data into a document. name is only used for error reporting.
// A section or a key within one section that appears twice is a configuration error.
func Parse(name string, data []byte) (*domain.Document, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", name)
	}

	doc := domain.NewDocument()
	for _, sec := range f.Sections() {
		var values *domain.Values
		if sec.Name() == ini.DefaultSection {
			values = doc.Global()
		} else {
			values, err = doc.AddSection(sec.Name())
			if err != nil {
				return nil, zerr.With(err, "path", name)
			}
		}
		for _, key := range sec.Keys() {
			if values.Has(key.Name()) || len(key.ValueWithShadows()) > 1 {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicateKey, "key "+key.Name()+" is set more than once"),
					"section", sec.Name())
				return nil, zerr.With(zerr.With(err, "key", key.Name()), "path", name)
			}
			values.Set(key.Name(), key.Value())
		}
	}
	return doc, nil
}

// Encode serializes doc: the global section first, then every target in insertion order.
func Encode(doc *domain.Document) ([]byte, error) {
	f := ini.Empty(loadOptions)
	if err := addKeys(f.Section(ini.DefaultSection), doc.Global()); err != nil {
		return nil, err
	}
	for _, name := range doc.Targets() {
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "section", name)
		}
		values, _ := doc.Section(name)
		if err := addKeys(sec, values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return buf.Bytes(), nil
}

// Write serializes doc to path, creating the parent directory when needed.
func (s *Store) Write(path string, doc *domain.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", path)
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}

func addKeys(sec *ini.Section, values *domain.Values) error {
	for _, k := range values.Keys() {
		v, _ := values.Get(k)
		if _, err := sec.NewKey(k, v); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()),
				"section", sec.Name()), "key", k)
		}
	}
	return nil
}
