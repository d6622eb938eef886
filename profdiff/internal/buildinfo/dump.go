package buildinfo

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
)

var ErrNoBuildInfo = errors.New("build info is not available")

// Dump writes the module version and the VCS settings the binary was built with.
func Dump(w io.Writer) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrNoBuildInfo
	}
	return dump(w, info)
}

// Version returns the version of the main module.
func Version() (string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ErrNoBuildInfo
	}
	return version(info), nil
}

func version(info *debug.BuildInfo) string {
	if info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

func dump(w io.Writer, info *debug.BuildInfo) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", info.Main.Path, version(info)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "go: %s\n", info.GoVersion); err != nil {
		return err
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision", "vcs.time", "vcs.modified":
			if _, err := fmt.Fprintf(w, "%s: %s\n", setting.Key, setting.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
