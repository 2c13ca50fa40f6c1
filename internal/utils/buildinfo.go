package utils

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	revisionSettingKey = "vcs.revision"
	shortRevisionWidth = 7
)

// Version may be set at link time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion determines the application version from the link-time value,
// then the module version recorded in build info, then the VCS revision.
func GetApplicationVersion() string {
	if strings.TrimSpace(Version) != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == revisionSettingKey && setting.Value != "" {
			revision := setting.Value
			if len(revision) > shortRevisionWidth {
				revision = revision[:shortRevisionWidth]
			}
			return developmentVersion + " " + revision
		}
	}
	return unknownVersion
}
