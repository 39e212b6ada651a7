// Package version reports the build stamp of the running binary
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information stamped at link time:
//
//	-ldflags "-X 'trendscope/internal/core/version.version=v0.1.0' -X 'trendscope/internal/core/version.commit=abcd'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "trendscope-api",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
