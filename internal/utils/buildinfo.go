package utils

import (
	"runtime/debug"
)

// developmentVersion is reported for binaries built without release
// version information.
const developmentVersion = "dev"

// GetApplicationVersion returns the module version recorded in the
// binary's build information, or "dev" for local builds.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return developmentVersion
}
