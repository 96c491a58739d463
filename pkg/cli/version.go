package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/jsongen/pkg/cli/internal/output"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// buildVersion combines the ldflags values with the module build info,
// which fills in whatever the build did not inject.
func buildVersion() VersionOutput {
	out := VersionOutput{
		Version: Version,
		Commit:  Commit,
		Date:    BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	if out.Version == "dev" && info.Main.Version != "" {
		out.Version = info.Main.Version
	}
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if rev, ok := settings["vcs.revision"]; ok && out.Commit == "none" {
		out.Commit = rev
	}
	if t, ok := settings["vcs.time"]; ok && out.Date == "unknown" {
		out.Date = t
	}
	if settings["vcs.modified"] == "true" {
		out.Commit += "-dirty"
	}
	return out
}

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show jsongen version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := buildVersion()
		if versionJSON {
			return output.JSON(cmd.OutOrStdout(), v)
		}

		tag := v.Version
		if tag != "dev" && tag != "(devel)" && !strings.HasPrefix(tag, "v") {
			tag = "v" + tag
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "jsongen %s (%s, %s)\n", tag, v.Commit, v.Date)
		fmt.Fprintf(w, "%s %s/%s\n", v.Go, v.OS, v.Arch)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
