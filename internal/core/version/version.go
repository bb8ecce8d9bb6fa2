// Package version provides information about the build version of the binary.
package version

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service" yaml:"service"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'wdlabels/internal/core/version.version=v0.1.0'
	// -X 'wdlabels/internal/core/version.commit=abcd' -X 'wdlabels/internal/core/version.date=2026-10-01'"
	return BuildInfo{
		Service: "wdlabels-extract",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the build info on one line for -version and the run banner
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
