// Package override discovers per-target override files and applies them.
//
// Override files live at <root>/<namespace>/<target>.conf and may contain the
// sections append, set and delete. Matched files are applied one document at
// a time in the order the namespaces were requested; inside one document the
// append section runs first, then set, then delete. A later namespace therefore
// wins on set, and appends show up in request order.
package override

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var passes = []string{domain.OverrideAppend, domain.OverrideSet, domain.OverrideDelete}

// Engine finds and applies override files below one root directory.
type Engine struct {
	root  string
	store ports.DocumentStore
	fs    ports.FileSystem
}

// NewEngine creates an Engine for the overrides root.
func NewEngine(root string, store ports.DocumentStore, fsys ports.FileSystem) *Engine {
	return &Engine{root: root, store: store, fs: fsys}
}

// Root returns the overrides root directory.
func (e *Engine) Root() string {
	return e.root
}

// Path returns the override file for target in namespace.
func (e *Engine) Path(namespace, target string) string {
	return filepath.Join(e.root, namespace, target+domain.OverrideFileExt)
}

// Find parses the override files of target for each namespace, keeping request order.
// Namespaces without a file are skipped.
func (e *Engine) Find(target string, namespaces []string) (domain.OverrideRecord, error) {
	record := domain.OverrideRecord{Target: target}
	for _, ns := range namespaces {
		path := e.Path(ns, target)
		info, err := e.fs.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return domain.OverrideRecord{}, zerr.With(zerr.Wrap(err, domain.ErrStatFailed.Error()), "path", path)
		}
		if info.IsDir() {
			continue
		}

		doc, err := e.store.ReadRequired(path)
		if err != nil {
			return domain.OverrideRecord{}, zerr.With(err, "namespace", ns)
		}
		record.Sources = append(record.Sources, domain.OverrideSource{
			Namespace: ns,
			Path:      path,
			Document:  doc,
		})
	}
	return record, nil
}

// Apply runs every override document of record against its target in doc.
// The record is validated before anything changes, and the target is left
// untouched when an operation fails. On success with at least one document
// the applied namespaces are stored under dp.applied_overrides.
func (e *Engine) Apply(doc *domain.Document, record domain.OverrideRecord) error {
	target, ok := doc.Section(record.Target)
	if !ok || record.Target == domain.GlobalSection {
		return zerr.With(zerr.Wrap(domain.ErrMissingSection, "override target not found"), "target", record.Target)
	}
	if len(record.Sources) == 0 {
		return nil
	}

	if err := validate(record); err != nil {
		return err
	}

	work := target.Clone()
	for _, src := range record.Sources {
		for _, pass := range passes {
			ops, ok := src.Document.Section(pass)
			if !ok {
				continue
			}
			if err := apply(pass, work, doc.Global(), ops); err != nil {
				err = zerr.With(err, "namespace", src.Namespace)
				return zerr.With(err, "target", record.Target)
			}
		}
	}
	work.Set(domain.KeyAppliedOverrides, record.Applied())

	target.Replace(work)
	return nil
}

func validate(record domain.OverrideRecord) error {
	for _, src := range record.Sources {
		invalid := src.Document.Targets()
		if src.Document.Global().Len() > 0 {
			invalid = append([]string{domain.GlobalSection}, invalid...)
		}
		for _, name := range invalid {
			switch name {
			case domain.OverrideAppend, domain.OverrideSet, domain.OverrideDelete:
				continue
			}
			err := zerr.Wrap(domain.ErrUnknownOverrideSection, "unknown override section "+name)
			err = zerr.With(err, "section", name)
			return zerr.With(err, "path", src.Path)
		}
	}
	return nil
}

func apply(pass string, target, global, ops *domain.Values) error {
	for _, key := range ops.Keys() {
		value, _ := ops.Get(key)
		switch pass {
		case domain.OverrideAppend:
			existing, ok := domain.Layered{Own: target, Global: global}.Get(key)
			if ok {
				value = strings.TrimSpace(existing + " " + value)
			}
			target.Set(key, value)
		case domain.OverrideSet:
			target.Set(key, value)
		case domain.OverrideDelete:
			if !target.Delete(key) {
				return zerr.With(zerr.Wrap(domain.ErrUnknownKey, "cannot delete "+key), "key", key)
			}
		}
	}
	return nil
}
