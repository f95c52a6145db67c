package domain

// Settings configures devpipe itself, as opposed to the projects it resolves.
type Settings struct {
	// Home is the per-user devpipe directory.
	Home string
	// ProfilesFile is the absolute path of the profile file.
	ProfilesFile string
	// OverridesDir is the absolute path of the overrides root.
	OverridesDir string
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
	// LogFormat is either pretty or json.
	LogFormat string
}
