// Package version carries the build identity stamped into the binary. The
// values are set through ldflags by the release build; a binary built any
// other way reports itself as a dev build.
package version

import (
	"fmt"
	"runtime"
)

var (
	// CommitHash is the git commit the binary was built from.
	CommitHash = "dev"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"

	// Version is the semantic version when the build was tagged.
	Version = "dev"
)

// Info is the full build identity, including the runtime facts that are
// known without stamping.
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get assembles the build identity of the running binary.
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the one-line form used by the version command.
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("wastalk %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("wastalk dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short is the abbreviated commit hash, for embedding in log lines.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
