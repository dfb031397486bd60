package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// homeEnvVar is the variable holding the home directory on this platform.
func homeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
// The home directory comes from HOME (USERPROFILE on Windows); if that is
// unset an error is returned.
func ExpandTilde(path string) (string, error) {
	envvar := homeEnvVar()
	home := os.Getenv(envvar)
	if home == "" {
		return "", fmt.Errorf("cannot determine home dir: %s environment variable is not defined", envvar)
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	case runtime.GOOS == "windows" && strings.HasPrefix(path, `~\`):
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
