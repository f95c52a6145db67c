package domain

import "go.trai.ch/zerr"

var (
	// ErrConfiguration is the generic category for malformed project configuration
	// and unresolvable interpolation.
	ErrConfiguration = zerr.New("configuration error")

	// ErrUnknownProfile is returned when a requested profile has no section in the profile file.
	ErrUnknownProfile = zerr.New("profile does not exist")

	// ErrUnknownOverrideSection is returned when an override file has a section other than append, set or delete.
	ErrUnknownOverrideSection = zerr.New("unknown override section")

	// ErrUnknownKey is returned when a delete override names a key the target does not have.
	ErrUnknownKey = zerr.New("override deletes a key that does not exist")

	// ErrNotABuildDirectory is returned when the destination is populated but holds no build cache.
	ErrNotABuildDirectory = zerr.New("destination does not look like a build directory")

	// ErrMissingBuildCache is returned when no build cache can be found.
	ErrMissingBuildCache = zerr.New("can't find build cache")

	// ErrMissingFile is returned when a required configuration file does not exist.
	ErrMissingFile = zerr.New("required file does not exist")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrCacheCreateFailed is returned when the build directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create build directory")

	// ErrCacheWriteFailed is returned when the build cache cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write build cache")

	// ErrStatFailed is returned when stating a path fails for a reason other than absence.
	ErrStatFailed = zerr.New("failed to stat path")

	// ErrFingerprintFailed is returned when hashing the build cache fails.
	ErrFingerprintFailed = zerr.New("failed to fingerprint build cache")

	// ErrSettingsParseFailed is returned when the devpipe settings file cannot be parsed.
	ErrSettingsParseFailed = zerr.New("failed to parse settings")

	// ErrInvalidVersion is returned when a version string is not a semantic version.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrMissingKey is returned when a key is not visible from a section.
	ErrMissingKey = zerr.New("key does not exist")

	// ErrMissingSection is returned when a section does not exist.
	ErrMissingSection = zerr.New("section does not exist")
)

// Configuration errors. Each one also matches ErrConfiguration.
var (
	// ErrDuplicateSection is returned when a section name is added twice to a document.
	ErrDuplicateSection = zerr.Wrap(ErrConfiguration, "duplicate section")

	// ErrDuplicateKey is returned when a key is set twice in one section of a file.
	ErrDuplicateKey = zerr.Wrap(ErrConfiguration, "duplicate key")

	// ErrInterpolation is returned when a value references something that cannot be resolved.
	ErrInterpolation = zerr.Wrap(ErrConfiguration, "failed to interpolate value")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.Wrap(ErrConfiguration, "failed to parse config file")
)
