// Package viewer opens a written figure in the platform's default viewer.
package viewer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open starts the default viewer for path without waiting for it.
func Open(path string) error {
	name, args, err := command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

func command(goos, path string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
