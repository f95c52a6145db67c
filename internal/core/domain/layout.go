package domain

import (
	"os"
	"path/filepath"
)

const (
	// GlobalSection is the name of the section every other section falls back to.
	GlobalSection = "DEFAULT"

	// CacheFileName is the name of the resolved configuration inside a build directory.
	CacheFileName = "build.cache"

	// ConfigFileName is the default name of the project configuration.
	ConfigFileName = "build.config"

	// HomeDirName is the per-user devpipe directory below the home directory.
	HomeDirName = ".dev-pipeline.d"

	// HomeEnv overrides the location of the per-user devpipe directory.
	HomeEnv = "DEVPIPE_HOME"

	// ProfilesFileName is the name of the profile file inside the devpipe directory.
	ProfilesFileName = "profiles.conf"

	// OverridesDirName is the name of the overrides root inside the devpipe directory.
	OverridesDirName = "overrides.d"

	// OverrideFileExt is the extension of a per-target override file.
	OverrideFileExt = ".conf"

	// SettingsFileName is the name of the devpipe settings file inside the devpipe directory.
	SettingsFileName = "config.toml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Reserved keys written by the cache builder.
const (
	KeyBuildConfig      = "dp.build_config"
	KeyBuildRoot        = "dp.build_root"
	KeySrcRoot          = "dp.src_root"
	KeyOverrides        = "dp.overrides"
	KeyProfileName      = "dp.profile_name"
	KeyVersion          = "dp.version"
	KeyBuildDir         = "dp.build_dir"
	KeySrcDir           = "dp.src_dir"
	KeyAppliedOverrides = "dp.applied_overrides"

	// KeySrcPath lets a target choose its own source directory.
	KeySrcPath = "src_path"
)

// DefaultHomePath returns the per-user devpipe directory.
// DEVPIPE_HOME wins over ~/.dev-pipeline.d.
func DefaultHomePath() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userHome, HomeDirName), nil
}

// CachePath returns the build cache location inside buildDir.
func CachePath(buildDir string) string {
	return filepath.Join(buildDir, CacheFileName)
}
