package sqlfrag

import (
	"runtime"
	"runtime/debug"
)

// Semantic version of this package. Constant for a given build.
const Version = `1.2.0`

// Keys of the map returned by `GetBuildInfo`.
const (
	BuildInfoVersion     = `version`
	BuildInfoCompiler    = `compiler`
	BuildInfoPlatform    = `platform`
	BuildInfoPythonBuild = `python_build`
)

// Returns `Version`.
func GetVersion() string { return Version }

/*
Returns static descriptive strings about the build: the package version, the
compiler toolchain, the target platform as "GOOS/GOARCH", and the runtime
version, followed by the VCS revision when the binary was built with VCS
stamping. Returns a new map on every call.
*/
func GetBuildInfo() map[string]string {
	return map[string]string{
		BuildInfoVersion:     Version,
		BuildInfoCompiler:    runtime.Compiler,
		BuildInfoPlatform:    runtime.GOOS + `/` + runtime.GOARCH,
		BuildInfoPythonBuild: runtimeBuild(),
	}
}

func runtimeBuild() string {
	out := runtime.Version()

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	var rev, modified string
	for _, val := range info.Settings {
		switch val.Key {
		case `vcs.revision`:
			rev = val.Value
		case `vcs.modified`:
			modified = val.Value
		}
	}

	if rev == `` {
		return out
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if modified == `true` {
		rev += `+dirty`
	}
	return out + ` (` + rev + `)`
}
