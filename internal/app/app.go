// Package app implements the application layer for devpipe.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/devpipe/internal/engine/resolver"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Output formats understood by Show.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// DefaultBuildDirBasename is the build directory name used when none is given.
const DefaultBuildDirBasename = "build"

// App represents the main application logic.
type App struct {
	builder  *resolver.Builder
	detector *resolver.Detector
	fs       ports.FileSystem
	hasher   ports.Hasher
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	builder *resolver.Builder,
	detector *resolver.Detector,
	fsys ports.FileSystem,
	hasher ports.Hasher,
	logger ports.Logger,
) *App {
	return &App{
		builder:  builder,
		detector: detector,
		fs:       fsys,
		hasher:   hasher,
		logger:   logger,
	}
}

// ConfigureOptions configures a build directory.
type ConfigureOptions struct {
	// ConfigPath is the project configuration file.
	ConfigPath string
	// Profiles is the comma-separated profile selection.
	Profiles string
	// Overrides are the override namespaces in request order.
	Overrides []string
	// BuildDir is the destination. When empty it is derived from BuildDirBasename.
	BuildDir string
	// BuildDirBasename names the derived destination, suffixed with the profiles.
	BuildDirBasename string
}

// Configure writes a fresh build cache and returns its path.
func (a *App) Configure(ctx context.Context, opts ConfigureOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.ConfigFileName
	}

	doc, err := a.builder.Build(resolver.Params{
		ConfigPath: configPath,
		Profiles:   opts.Profiles,
		Overrides:  opts.Overrides,
		BuildDir:   buildDir(opts),
	})
	if err != nil {
		return "", zerr.Wrap(err, "failed to configure build directory")
	}

	root, _ := doc.Global().Get(domain.KeyBuildRoot)
	cachePath := domain.CachePath(root)
	a.logConfigured("configured", cachePath, len(doc.Targets()))
	return cachePath, nil
}

// RefreshOptions selects the cache to refresh.
type RefreshOptions struct {
	// CachePath is a cache file or build directory. Empty searches from the working directory.
	CachePath string
	// Force rebuilds even when the cache is up to date.
	Force bool
}

// Refresh rebuilds a build cache when it is stale or when forced.
func (a *App) Refresh(ctx context.Context, opts RefreshOptions) (resolver.Result, error) {
	if err := ctx.Err(); err != nil {
		return resolver.Result{}, err
	}

	cachePath, err := a.locateCache(opts.CachePath)
	if err != nil {
		return resolver.Result{}, err
	}

	result, err := a.detector.Refresh(cachePath, opts.Force)
	if err != nil {
		return resolver.Result{}, zerr.Wrap(err, "failed to refresh build cache")
	}

	if !result.Rebuilt {
		a.logger.Info(fmt.Sprintf("%s: %s", cachePath, result.Staleness.Reason))
		return result, nil
	}
	reason := result.Staleness.Reason
	if result.Staleness.Path != "" {
		reason += " (" + result.Staleness.Path + ")"
	}
	a.logger.Info("rebuilding build cache: " + reason)
	a.logConfigured("rebuilt", cachePath, len(result.Document.Targets()))
	return result, nil
}

// ShowOptions selects what Show prints.
type ShowOptions struct {
	// CachePath is a cache file or build directory. Empty searches from the working directory.
	CachePath string
	// Targets restricts the output. Empty prints every target.
	Targets []string
	// Format is FormatText or FormatYAML.
	Format string
	// Out receives the output.
	Out io.Writer
}

// Show refreshes the cache if needed and prints the resolved values of its targets.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	result, err := a.Refresh(ctx, RefreshOptions{CachePath: opts.CachePath})
	if err != nil {
		return err
	}
	doc := result.Document

	targets := opts.Targets
	if len(targets) == 0 {
		targets = doc.Targets()
	}

	sections := make([]section, 0, len(targets))
	for _, target := range targets {
		if !doc.HasSection(target) {
			return zerr.With(zerr.Wrap(domain.ErrMissingSection, "unknown target"), "target", target)
		}
		values, err := doc.Resolve(target)
		if err != nil {
			return err
		}
		sections = append(sections, section{name: target, values: values})
	}

	switch opts.Format {
	case "", FormatText:
		return writeText(opts.Out, sections)
	case FormatYAML:
		return writeYAML(opts.Out, sections)
	default:
		return zerr.With(zerr.New("unsupported output format"), "format", opts.Format)
	}
}

// locateCache turns an explicit cache or build directory path into a cache
// path, or searches the working directory and its ancestors.
func (a *App) locateCache(path string) (string, error) {
	if path != "" {
		if info, err := a.fs.Stat(path); err == nil && info.IsDir() {
			return domain.CachePath(path), nil
		}
		return path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	found, ok := a.fs.FindUp(wd, domain.CacheFileName)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrMissingBuildCache, "no build cache found"), "start", wd)
	}
	return found, nil
}

func (a *App) logConfigured(verb, cachePath string, targets int) {
	msg := fmt.Sprintf("%s %s with %d targets", verb, cachePath, targets)
	fingerprint, err := a.hasher.Fingerprint(cachePath)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("%s: %v", msg, err))
		return
	}
	a.logger.Info(fmt.Sprintf("%s (fingerprint %s)", msg, fingerprint))
}

func buildDir(opts ConfigureOptions) string {
	if opts.BuildDir != "" {
		return opts.BuildDir
	}
	base := opts.BuildDirBasename
	if base == "" {
		base = DefaultBuildDirBasename
	}
	if opts.Profiles != "" {
		return base + "-" + opts.Profiles
	}
	return base
}

type section struct {
	name   string
	values *domain.Values
}

func writeText(w io.Writer, sections []section) error {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s]\n", s.name)
		for _, key := range s.values.Keys() {
			v, _ := s.values.Get(key)
			fmt.Fprintf(&b, "%s = %s\n", key, v)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeYAML(w io.Writer, sections []section) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range sections {
		values := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range s.values.Keys() {
			v, _ := s.values.Get(key)
			values.Content = append(values.Content, scalar(key), scalar(v))
		}
		root.Content = append(root.Content, scalar(s.name), values)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return zerr.Wrap(err, "failed to encode yaml")
	}
	return enc.Close()
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

