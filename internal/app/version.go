package app

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/heartmarshall/apptracker/internal/app.Version=1.2.0".
// Commit and BuildTime fall back to the VCS stamp embedded by the go tool.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

var vcsOnce = sync.OnceValues(func() (revision, timestamp string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			timestamp = s.Value
		}
	}
	return revision, timestamp
})

func buildStamp() (commit, built string) {
	commit, built = Commit, BuildTime
	rev, ts := vcsOnce()
	if commit == "" {
		commit = rev
	}
	if built == "" {
		built = ts
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return orUnknown(commit), orUnknown(built)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// BuildVersion is the version string reported by --version.
func BuildVersion() string {
	commit, built := buildStamp()
	return Version + " (commit: " + commit + ", built: " + built + ")"
}

func buildAttrs() slog.Attr {
	commit, built := buildStamp()
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", commit),
		slog.String("built", built),
	)
}
