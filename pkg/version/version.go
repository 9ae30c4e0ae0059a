package version

import "fmt"

// Build time injected information
var (
	Version    string
	CommitHash string
	BuildTime  string
)

// GetVersion returns the version information in a human consumable way. This
// is intended to be used when the user requests the version information.
func GetVersion() string {
	return makeVersionString(Version, CommitHash)
}

func makeVersionString(version, commitHash string) string {
	if version == "" {
		version = "development"
	}
	if commitHash == "" {
		return version
	}
	return fmt.Sprintf("%s(%s)", version, commitHash)
}
