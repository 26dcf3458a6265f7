// Package version carries build metadata injected through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	GitVersion = "v0.0.0-dev"
	GitCommit  = "unknown"
	BuildDate  = "1970-01-01T00:00:00Z"
)

// Info is the version report printed by `echotask version`.
type Info struct {
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		GitVersion: GitVersion,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return i.GitVersion
}
