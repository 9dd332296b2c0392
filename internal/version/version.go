// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/chaos-zero-companion/internal/version.Version=v1.2.3"
package version

// Version is the application version. It defaults to "dev" and can be
// overridden at build time using ldflags.
var Version = "dev"

// Service is the name reported by the API.
const Service = "chaos-zero-companion-api"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}
