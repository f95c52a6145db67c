package resolver

import (
	"errors"
	"io/fs"
	"slices"
	"time"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/devpipe/internal/engine/override"
	"go.trai.ch/zerr"
)

// Staleness explains whether a build cache must be rebuilt.
type Staleness struct {
	Stale bool
	// Reason is a short human readable explanation.
	Reason string
	// Path is the input that made the cache stale, if any.
	Path string
}

// Result is the outcome of a refresh.
type Result struct {
	Document  *domain.Document
	Rebuilt   bool
	Staleness Staleness
}

// Detector compares a build cache with its inputs and rebuilds it when needed.
type Detector struct {
	store     ports.DocumentStore
	fs        ports.FileSystem
	overrides *override.Engine
	builder   *Builder
	env       Environment
}

// NewDetector creates a new Detector.
func NewDetector(
	store ports.DocumentStore,
	fsys ports.FileSystem,
	overrides *override.Engine,
	builder *Builder,
	env Environment,
) *Detector {
	return &Detector{
		store:     store,
		fs:        fsys,
		overrides: overrides,
		builder:   builder,
		env:       env,
	}
}

// Refresh loads the cache at cachePath and rebuilds it from its own record
// when force is set or the cache is stale. Otherwise nothing is written.
func (d *Detector) Refresh(cachePath string, force bool) (Result, error) {
	doc, err := d.load(cachePath)
	if err != nil {
		return Result{}, err
	}
	rec, err := domain.DecodeCacheRecord(doc)
	if err != nil {
		return Result{}, zerr.With(err, "path", cachePath)
	}

	staleness := Staleness{Stale: true, Reason: "rebuild forced"}
	if !force {
		staleness, err = d.Check(cachePath, doc)
		if err != nil {
			return Result{}, err
		}
		if !staleness.Stale {
			return Result{Document: doc, Staleness: staleness}, nil
		}
	}

	rebuilt, err := d.builder.Build(Params{
		ConfigPath: rec.BuildConfig,
		Profiles:   rec.ProfileName,
		Overrides:  rec.Overrides,
		BuildDir:   rec.BuildRoot,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Document: rebuilt, Rebuilt: true, Staleness: staleness}, nil
}

// Check evaluates, in order and stopping at the first hit: the project
// configuration, the profile file, the software version and the override files
// of every target.
func (d *Detector) Check(cachePath string, doc *domain.Document) (Staleness, error) {
	cacheTime, ok, err := d.modTime(cachePath)
	if err != nil {
		return Staleness{}, err
	}
	if !ok {
		return Staleness{}, zerr.With(zerr.Wrap(domain.ErrMissingBuildCache, "build cache does not exist"), "path", cachePath)
	}

	rec, err := domain.DecodeCacheRecord(doc)
	if err != nil {
		return Staleness{}, zerr.With(err, "path", cachePath)
	}

	configTime, ok, err := d.modTime(rec.BuildConfig)
	if err != nil {
		return Staleness{}, err
	}
	if !ok {
		return stale("project configuration is missing", rec.BuildConfig), nil
	}
	if configTime.After(cacheTime) {
		return stale("project configuration changed", rec.BuildConfig), nil
	}

	profileTime, ok, err := d.modTime(d.env.ProfilesFile)
	if err != nil {
		return Staleness{}, err
	}
	if ok && profileTime.After(cacheTime) {
		return stale("profile file changed", d.env.ProfilesFile), nil
	}

	if d.env.Stamp > rec.Version {
		return stale("devpipe was upgraded from "+rec.Version.String()+" to "+d.env.Stamp.String(), ""), nil
	}

	return d.checkOverrides(doc, rec.Overrides, cacheTime)
}

func (d *Detector) checkOverrides(doc *domain.Document, namespaces []string, cacheTime time.Time) (Staleness, error) {
	for _, target := range doc.Targets() {
		applied := domain.AppliedOverrides(doc, target)
		for _, ns := range namespaces {
			path := d.overrides.Path(ns, target)
			modTime, ok, err := d.overrideModTime(path)
			if err != nil {
				return Staleness{}, err
			}
			wasApplied := slices.Contains(applied, ns)
			switch {
			case !ok && wasApplied:
				return stale("override was removed", path), nil
			case ok && !wasApplied:
				return stale("override was added", path), nil
			case ok && modTime.After(cacheTime):
				return stale("override changed", path), nil
			}
		}
	}
	return Staleness{Reason: "build cache is up to date"}, nil
}

func (d *Detector) load(cachePath string) (*domain.Document, error) {
	_, ok, err := d.modTime(cachePath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingBuildCache, "build cache does not exist"), "path", cachePath)
	}
	return d.store.ReadRequired(cachePath)
}

// modTime returns the modification time of path and whether path exists.
func (d *Detector) modTime(path string) (time.Time, bool, error) {
	if path == "" {
		return time.Time{}, false, nil
	}
	info, err := d.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, domain.ErrStatFailed.Error()), "path", path)
	}
	return info.ModTime(), true, nil
}

// overrideModTime is modTime for override files. A directory in place of an
// override file counts as absent, as it does for override.Engine.Find.
func (d *Detector) overrideModTime(path string) (time.Time, bool, error) {
	info, err := d.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, zerr.With(zerr.Wrap(err, domain.ErrStatFailed.Error()), "path", path)
	}
	if info.IsDir() {
		return time.Time{}, false, nil
	}
	return info.ModTime(), true, nil
}

func stale(reason, path string) Staleness {
	return Staleness{Stale: true, Reason: reason, Path: path}
}
