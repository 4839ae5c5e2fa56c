// Package version reports build information for the cfdirect binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at link time:
//
//	go build -ldflags "-X github.com/cfdirect/cfdirect/pkg/version.Version=v1.2.3"
var Version string

// Info describes the running binary.
type Info struct {
	Version   string
	Revision  string
	GoVersion string
	Platform  string
	Modified  bool
}

// Get collects the [Info] of the running binary. Without a link-time
// [Version], the module version recorded by "go install" is used, then the
// short VCS revision.
func Get() Info {
	info := Info{
		Version:   Version,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}

	if info.Version == "" {
		info.Version = info.Revision
	}

	return info
}

func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			i.Revision = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String formats the info as printed by --version, e.g.
// "v1.2.3 (abc1234, go1.25.5, darwin/arm64)".
func (i Info) String() string {
	rev := i.Revision
	if i.Modified {
		rev += "-dirty"
	}

	return fmt.Sprintf("%s (%s, %s, %s)", i.Version, rev, i.GoVersion, i.Platform)
}
