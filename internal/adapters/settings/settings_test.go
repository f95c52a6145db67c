package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.trai.ch/devpipe/internal/adapters/settings"
	"go.trai.ch/devpipe/internal/core/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		main    string
		dropIns map[string]string
		want    func(home string) *domain.Settings
	}{
		{
			name: "defaults only",
			want: func(home string) *domain.Settings {
				return &domain.Settings{
					Home:         home,
					ProfilesFile: filepath.Join(home, domain.ProfilesFileName),
					OverridesDir: filepath.Join(home, domain.OverridesDirName),
					LogLevel:     "info",
					LogFormat:    "pretty",
				}
			},
		},
		{
			name: "main file overrides defaults",
			main: "profiles-file = \"/etc/devpipe/profiles.conf\"\nlog-format = \"JSON\"\n",
			want: func(home string) *domain.Settings {
				return &domain.Settings{
					Home:         home,
					ProfilesFile: "/etc/devpipe/profiles.conf",
					OverridesDir: filepath.Join(home, domain.OverridesDirName),
					LogLevel:     "info",
					LogFormat:    "json",
				}
			},
		},
		{
			name: "drop-ins apply in lexical order",
			main: "log-level = \"warn\"\n",
			dropIns: map[string]string{
				"20-late.toml":  "overrides-dir = \"late\"\n",
				"10-early.toml": "overrides-dir = \"early\"\nlog-level = \"debug\"\n",
				"ignored.txt":   "this is not toml",
			},
			want: func(home string) *domain.Settings {
				return &domain.Settings{
					Home:         home,
					ProfilesFile: filepath.Join(home, domain.ProfilesFileName),
					OverridesDir: filepath.Join(home, "late"),
					LogLevel:     "debug",
					LogFormat:    "pretty",
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			if tt.main != "" {
				require.NoError(t, os.WriteFile(filepath.Join(home, domain.SettingsFileName), []byte(tt.main), domain.FilePerm))
			}
			if len(tt.dropIns) > 0 {
				dir := filepath.Join(home, settings.DropInDirName)
				require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
				for name, content := range tt.dropIns {
					require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm))
				}
			}

			got, err := settings.Load(home)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want(home), got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		main string
	}{
		{name: "malformed toml", main: "log-level = \n"},
		{name: "unknown level", main: "log-level = \"loud\"\n"},
		{name: "unknown format", main: "log-format = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(home, domain.SettingsFileName), []byte(tt.main), domain.FilePerm))

			_, err := settings.Load(home)
			require.ErrorIs(t, err, domain.ErrSettingsParseFailed)
		})
	}
}
