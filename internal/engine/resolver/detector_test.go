package resolver_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devpipe/internal/adapters/ini"
	"go.trai.ch/devpipe/internal/core/domain"
)

// built creates a cache whose inputs are all an hour older than the cache itself.
func built(t *testing.T, w *workspace, profiles string, overrides ...string) time.Time {
	t.Helper()
	_, err := w.builder().Build(w.params(profiles, overrides...))
	require.NoError(t, err)

	base := time.Now().Truncate(time.Second)
	inputs := []string{w.configPath, w.profilesFile}
	for _, ns := range overrides {
		for _, target := range []string{"zlib", "app"} {
			p := filepath.Join(w.overrides, ns, target+domain.OverrideFileExt)
			if _, err := os.Stat(p); err == nil {
				inputs = append(inputs, p)
			}
		}
	}
	age(t, base, -time.Hour, inputs...)
	age(t, base, 0, w.cachePath())
	return base
}

func loadCache(t *testing.T, w *workspace) *domain.Document {
	t.Helper()
	doc, err := ini.NewStore().ReadRequired(w.cachePath())
	require.NoError(t, err)
	return doc
}

func TestDetector_Check(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(t *testing.T, w *workspace, base time.Time)
		wantStale  bool
		wantReason string
		wantPath   func(w *workspace) string
	}{
		{
			name:      "up to date",
			mutate:    func(*testing.T, *workspace, time.Time) {},
			wantStale: false,
		},
		{
			name: "project config touched",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				age(t, base, time.Hour, w.configPath)
			},
			wantStale:  true,
			wantReason: "project configuration changed",
			wantPath:   func(w *workspace) string { return w.configPath },
		},
		{
			name: "project config removed",
			mutate: func(t *testing.T, w *workspace, _ time.Time) {
				require.NoError(t, os.Remove(w.configPath))
			},
			wantStale:  true,
			wantReason: "project configuration is missing",
		},
		{
			name: "profile file touched",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				age(t, base, time.Hour, w.profilesFile)
			},
			wantStale:  true,
			wantReason: "profile file changed",
			wantPath:   func(w *workspace) string { return w.profilesFile },
		},
		{
			name: "profile file removed",
			mutate: func(t *testing.T, w *workspace, _ time.Time) {
				require.NoError(t, os.Remove(w.profilesFile))
			},
			wantStale: false,
		},
		{
			name: "unrelated file touched",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				p := filepath.Join(w.project, "README.md")
				w.write(p, "hello")
				age(t, base, time.Hour, p)
			},
			wantStale: false,
		},
		{
			name: "override touched",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				age(t, base, time.Hour, filepath.Join(w.overrides, "local", "zlib.conf"))
			},
			wantStale:  true,
			wantReason: "override changed",
			wantPath:   func(w *workspace) string { return filepath.Join(w.overrides, "local", "zlib.conf") },
		},
		{
			name: "applied override removed",
			mutate: func(t *testing.T, w *workspace, _ time.Time) {
				require.NoError(t, os.Remove(filepath.Join(w.overrides, "local", "zlib.conf")))
			},
			wantStale:  true,
			wantReason: "override was removed",
		},
		{
			name: "override added for a requested namespace",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				p := w.override("ci", "app", "[set]\nrevision = main\n")
				age(t, base, -2*time.Hour, p)
			},
			wantStale:  true,
			wantReason: "override was added",
		},
		{
			name: "override added for an unrequested namespace",
			mutate: func(t *testing.T, w *workspace, base time.Time) {
				p := w.override("other", "app", "[set]\nrevision = main\n")
				age(t, base, time.Hour, p)
			},
			wantStale: false,
		},
		{
			name: "directory in place of an override file",
			mutate: func(t *testing.T, w *workspace, _ time.Time) {
				dir := filepath.Join(w.overrides, "ci", "app"+domain.OverrideFileExt)
				require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
			},
			wantStale: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			w.override("local", "zlib", "[set]\nrevision = develop\n")
			base := built(t, w, "debug", "local", "ci")

			tt.mutate(t, w, base)

			got, err := w.detector().Check(w.cachePath(), loadCache(t, w))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStale, got.Stale)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
			if tt.wantPath != nil {
				assert.Equal(t, tt.wantPath(w), got.Path)
			}
		})
	}
}

func TestDetector_Check_Version(t *testing.T) {
	w := newWorkspace(t)
	built(t, w, "")
	doc := loadCache(t, w)

	w.stamp = domain.NewStamp(1, 2, 3)
	got, err := w.detector().Check(w.cachePath(), doc)
	require.NoError(t, err)
	assert.False(t, got.Stale, "same version")

	w.stamp = domain.NewStamp(1, 2, 2)
	got, err = w.detector().Check(w.cachePath(), doc)
	require.NoError(t, err)
	assert.False(t, got.Stale, "older software does not rebuild")

	w.stamp = domain.NewStamp(1, 3, 0)
	got, err = w.detector().Check(w.cachePath(), doc)
	require.NoError(t, err)
	assert.True(t, got.Stale)
	assert.Equal(t, "devpipe was upgraded from 1020300 to 1030000", got.Reason)
}

func TestDetector_Check_MalformedVersion(t *testing.T) {
	w := newWorkspace(t)
	base := built(t, w, "")
	doc := loadCache(t, w)
	doc.Global().Set(domain.KeyVersion, "garbage")
	require.NoError(t, ini.NewStore().Write(w.cachePath(), doc))
	age(t, base, 0, w.cachePath())

	got, err := w.detector().Check(w.cachePath(), doc)
	require.NoError(t, err)
	assert.True(t, got.Stale)
}

func TestDetector_Refresh(t *testing.T) {
	t.Run("up to date cache is not rewritten", func(t *testing.T) {
		w := newWorkspace(t)
		base := built(t, w, "debug")
		before := w.readCache()

		res, err := w.detector().Refresh(w.cachePath(), false)
		require.NoError(t, err)
		assert.False(t, res.Rebuilt)
		assert.NotNil(t, res.Document)

		info, err := os.Stat(w.cachePath())
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(base), "cache mtime must not change")
		assert.Equal(t, before, w.readCache())
	})

	t.Run("stale cache is rebuilt from its own record", func(t *testing.T) {
		w := newWorkspace(t)
		base := built(t, w, "debug,asan", "local")

		w.write(w.configPath, projectConfig+"\n[extra]\nuri = https://example.com/extra.git\n")
		age(t, base, time.Hour, w.configPath)

		res, err := w.detector().Refresh(w.cachePath(), false)
		require.NoError(t, err)
		assert.True(t, res.Rebuilt)
		assert.Equal(t, "project configuration changed", res.Staleness.Reason)
		assert.Contains(t, res.Document.Targets(), "extra")

		rec, err := domain.DecodeCacheRecord(loadCache(t, w))
		require.NoError(t, err)
		assert.Equal(t, "debug,asan", rec.ProfileName)
		assert.Equal(t, []string{"local"}, rec.Overrides)
		assert.Equal(t, w.buildDir, rec.BuildRoot)
	})

	t.Run("force rebuilds", func(t *testing.T) {
		w := newWorkspace(t)
		base := built(t, w, "")

		res, err := w.detector().Refresh(w.cachePath(), true)
		require.NoError(t, err)
		assert.True(t, res.Rebuilt)
		assert.Equal(t, "rebuild forced", res.Staleness.Reason)

		info, err := os.Stat(w.cachePath())
		require.NoError(t, err)
		assert.False(t, info.ModTime().Equal(base))
	})

	t.Run("forced rebuild matches the original", func(t *testing.T) {
		w := newWorkspace(t)
		built(t, w, "asan", "local")
		before := w.readCache()

		_, err := w.detector().Refresh(w.cachePath(), true)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(w.readCache()))
	})

	t.Run("missing cache", func(t *testing.T) {
		w := newWorkspace(t)

		_, err := w.detector().Refresh(w.cachePath(), false)
		require.ErrorIs(t, err, domain.ErrMissingBuildCache)
	})

	t.Run("cache without record", func(t *testing.T) {
		w := newWorkspace(t)
		w.write(w.cachePath(), "[zlib]\nuri = x\n")

		_, err := w.detector().Refresh(w.cachePath(), false)
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("deleted project config surfaces as missing file", func(t *testing.T) {
		w := newWorkspace(t)
		built(t, w, "")
		require.NoError(t, os.Remove(w.configPath))

		_, err := w.detector().Refresh(w.cachePath(), false)
		require.ErrorIs(t, err, domain.ErrMissingFile)
	})
}
