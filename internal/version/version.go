package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/appflowbuild/internal/version.Version=v1.0.3".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// UserAgent is sent with every request to the build service.
// Format follows https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/User-Agent.
func UserAgent() string {
	v := Version
	if v == "unknown" {
		v = "1.0.3"
	}
	return "AppflowBuildAction/" + v
}
