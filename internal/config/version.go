package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionWarning returns a message when the stored config was written by a
// newer major version than the running tool. Unparsable versions such as
// "dev" never warn.
func versionWarning(stored, running string) string {
	sv, err := parseSemver(stored)
	if err != nil {
		return ""
	}
	rv, err := parseSemver(running)
	if err != nil {
		return ""
	}
	if sv.Major() > rv.Major() {
		return fmt.Sprintf("config was written by version %s, newer than this tool (%s); some values may be ignored", stored, running)
	}
	return ""
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
