// Package compileinfo reports the VCS provenance that the Go toolchain stamps
// into the binary.
package compileinfo

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("This %s binary (version %s) was built with %s at commit %v at time %v.%s", c.Package, c.Version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Fields renders the provenance as structured log fields.
func (c CompileInfo) Fields() log.Fields {
	return log.Fields{
		"package":     c.Package,
		"version":     c.Version,
		"go":          c.GoVersion,
		"commit":      c.Commit,
		"commit_time": c.CommitTime,
		"modified":    c.Modified,
	}
}

func Get() CompileInfo {
	out := CompileInfo{Version: "(devel)"}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	if z.Main.Version != "" {
		out.Version = z.Main.Version
	}
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Log writes the provenance to the diagnostic stream at info level.
func Log() {
	log.WithFields(Get().Fields()).Infoln("Build information")
}
