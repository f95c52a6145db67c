package resolver_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/devpipe/internal/adapters/fs"
	"go.trai.ch/devpipe/internal/adapters/ini"
	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/engine/override"
	"go.trai.ch/devpipe/internal/engine/profile"
	"go.trai.ch/devpipe/internal/engine/resolver"
)

const projectConfig = `[DEFAULT]
build = cmake
flags = -O2

[zlib]
uri = https://github.com/madler/zlib.git
revision = v1.3

[app]
uri = https://example.com/app.git
src_path = ${dp.src_root}/apps/app
deps = ${zlib:dp.build_dir}
`

const profilesConf = `[debug]
flags = -O0
cflags = -g

[asan]
cflags = -fsanitize=address
ldflags = -fsanitize=address
`

// workspace is a project directory plus a devpipe home directory.
type workspace struct {
	t            *testing.T
	project      string
	configPath   string
	buildDir     string
	profilesFile string
	overrides    string
	stamp        domain.Stamp
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	w := &workspace{
		t:            t,
		project:      filepath.Join(root, "project"),
		profilesFile: filepath.Join(root, "home", domain.ProfilesFileName),
		overrides:    filepath.Join(root, "home", domain.OverridesDirName),
		stamp:        domain.NewStamp(1, 2, 3),
	}
	w.configPath = filepath.Join(w.project, domain.ConfigFileName)
	w.buildDir = filepath.Join(w.project, "build")
	w.write(w.configPath, projectConfig)
	w.write(w.profilesFile, profilesConf)
	return w
}

func (w *workspace) write(path, content string) {
	w.t.Helper()
	require.NoError(w.t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(w.t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func (w *workspace) override(namespace, target, content string) string {
	w.t.Helper()
	path := filepath.Join(w.overrides, namespace, target+domain.OverrideFileExt)
	w.write(path, content)
	return path
}

func (w *workspace) env() resolver.Environment {
	return resolver.Environment{ProfilesFile: w.profilesFile, Stamp: w.stamp}
}

func (w *workspace) engine() *override.Engine {
	return override.NewEngine(w.overrides, ini.NewStore(), fs.NewOSFS())
}

func (w *workspace) builder() *resolver.Builder {
	return resolver.NewBuilder(ini.NewStore(), fs.NewOSFS(), profile.NewResolver(), w.engine(), w.env())
}

func (w *workspace) detector() *resolver.Detector {
	return resolver.NewDetector(ini.NewStore(), fs.NewOSFS(), w.engine(), w.builder(), w.env())
}

func (w *workspace) params(profiles string, overrides ...string) resolver.Params {
	return resolver.Params{
		ConfigPath: w.configPath,
		Profiles:   profiles,
		Overrides:  overrides,
		BuildDir:   w.buildDir,
	}
}

func (w *workspace) cachePath() string {
	return domain.CachePath(w.buildDir)
}

func (w *workspace) readCache() []byte {
	w.t.Helper()
	data, err := os.ReadFile(w.cachePath())
	require.NoError(w.t, err)
	return data
}

// age sets the mtime of every given path to base+offset.
func age(t *testing.T, base time.Time, offset time.Duration, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.Chtimes(p, base.Add(offset), base.Add(offset)))
	}
}
