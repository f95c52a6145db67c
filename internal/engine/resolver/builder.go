// Package resolver builds build caches and decides when they must be rebuilt.
package resolver

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/devpipe/internal/engine/override"
	"go.trai.ch/devpipe/internal/engine/profile"
	"go.trai.ch/zerr"
)

// Environment carries the process-wide inputs of a build.
type Environment struct {
	// ProfilesFile is the profile file. It may not exist.
	ProfilesFile string
	// Stamp is the version stamp of the running software.
	Stamp domain.Stamp
}

// Params are the inputs of one build.
type Params struct {
	// ConfigPath is the project configuration file.
	ConfigPath string
	// Profiles is the comma-separated profile selection, possibly empty.
	Profiles string
	// Overrides are the override namespaces in request order. Entries are
	// trimmed and empty ones are skipped.
	Overrides []string
	// BuildDir is the destination directory.
	BuildDir string
}

// Builder merges the project configuration, the selected profiles and the
// overrides into a build cache.
type Builder struct {
	store     ports.DocumentStore
	fs        ports.FileSystem
	profiles  *profile.Resolver
	overrides *override.Engine
	env       Environment
}

// NewBuilder creates a new Builder.
func NewBuilder(
	store ports.DocumentStore,
	fsys ports.FileSystem,
	profiles *profile.Resolver,
	overrides *override.Engine,
	env Environment,
) *Builder {
	return &Builder{
		store:     store,
		fs:        fsys,
		profiles:  profiles,
		overrides: overrides,
		env:       env,
	}
}

// Build resolves p, writes <BuildDir>/build.cache and returns the resolved document.
func (b *Builder) Build(p Params) (*domain.Document, error) {
	configPath, err := filepath.Abs(p.ConfigPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", p.ConfigPath)
	}
	buildRoot, err := filepath.Abs(p.BuildDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve build directory"), "path", p.BuildDir)
	}

	namespaces := domain.SplitList(strings.Join(p.Overrides, ","))

	doc, err := b.store.ReadRequired(configPath)
	if err != nil {
		return nil, err
	}

	if err := b.mergeProfiles(doc, p.Profiles); err != nil {
		return nil, err
	}

	if err := b.validateDestination(buildRoot); err != nil {
		return nil, err
	}

	domain.CacheRecord{
		BuildConfig: configPath,
		BuildRoot:   buildRoot,
		SrcRoot:     filepath.Dir(configPath),
		Overrides:   namespaces,
		ProfileName: p.Profiles,
		Version:     b.env.Stamp,
	}.Encode(doc.Global())

	for _, target := range doc.Targets() {
		if err := b.resolveTarget(doc, target, namespaces); err != nil {
			return nil, err
		}
	}

	if err := verify(doc); err != nil {
		return nil, err
	}

	if err := b.fs.MkdirAll(buildRoot); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", buildRoot)
	}
	if err := b.store.Write(domain.CachePath(buildRoot), doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// mergeProfiles adds profile values the project configuration does not set itself.
func (b *Builder) mergeProfiles(doc *domain.Document, names string) error {
	profileDoc, err := b.store.Read(b.env.ProfilesFile)
	if err != nil {
		return err
	}
	values, err := b.profiles.Resolve(names, profileDoc)
	if err != nil {
		return zerr.With(err, "profiles_file", b.env.ProfilesFile)
	}

	global := doc.Global()
	for _, key := range values.Keys() {
		if global.Has(key) {
			continue
		}
		v, _ := values.Get(key)
		global.Set(key, v)
	}
	return nil
}

// validateDestination accepts a missing directory, an empty one, or one that
// already holds a build cache.
func (b *Builder) validateDestination(dir string) error {
	info, err := b.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrStatFailed.Error()), "path", dir)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrNotABuildDirectory, "destination is not a directory"), "path", dir)
	}

	entries, err := b.fs.ReadDir(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStatFailed.Error()), "path", dir)
	}
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if entry.Name() == domain.CacheFileName && !entry.IsDir() {
			return nil
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrNotABuildDirectory, dir+" doesn't look like a build directory"), "path", dir)
}

func (b *Builder) resolveTarget(doc *domain.Document, target string, namespaces []string) error {
	values, _ := doc.Section(target)
	values.Set(domain.KeyBuildDir, "${"+domain.KeyBuildRoot+"}/"+target)

	srcDir := "${" + domain.KeySrcRoot + "}/" + target
	if raw, ok := doc.Raw(target, domain.KeySrcPath); ok && raw != "" {
		srcDir = raw
	}
	values.Set(domain.KeySrcDir, srcDir)

	record, err := b.overrides.Find(target, namespaces)
	if err != nil {
		return zerr.With(err, "target", target)
	}
	return b.overrides.Apply(doc, record)
}

// verify makes sure every value of the cache can be interpolated.
func verify(doc *domain.Document) error {
	sections := append([]string{domain.GlobalSection}, doc.Targets()...)
	for _, name := range sections {
		if _, err := doc.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}
