package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "labbook"

// DefaultDataDir returns the OS-appropriate default data directory.
//
//   - macOS:   ~/Library/Application Support/labbook
//   - Linux:   $XDG_DATA_HOME/labbook (fallback ~/.local/share/labbook)
//   - Windows: %LOCALAPPDATA%\labbook (fallback %APPDATA%\labbook)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		for _, env := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := os.Getenv(env); dir != "" {
				return filepath.Join(dir, appName)
			}
		}
		return filepath.Join(home, appName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}

// ResolveDataDir picks the data directory: an explicit flag value wins,
// then LABBOOK_DIR, then the OS default.
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv("LABBOOK_DIR"); dir != "" {
		return dir
	}
	return DefaultDataDir()
}
