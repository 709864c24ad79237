package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScriptExt is the file extension of Bex source files.
const ScriptExt = ".bx"

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// IsScript reports whether path names a .bx file with a non-empty stem.
func IsScript(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ScriptExt) && len(base) > len(ScriptExt)
}

// ResolveScript checks that args holds at most one .bx path and returns it
// made absolute. An empty result means no script was given.
func ResolveScript(args []string) (string, error) {
	var script string
	for _, arg := range args {
		if !IsScript(arg) {
			return "", fmt.Errorf("unknown argument: %s", arg)
		}
		if script != "" {
			return "", fmt.Errorf("multiple %s files specified", ScriptExt)
		}
		script = arg
	}
	if script == "" {
		return "", nil
	}
	full, _, err := GetPathInfo(script)
	return full, err
}

// ReadScript resolves path and returns its contents.
func ReadScript(path string) (string, error) {
	full, _, err := GetPathInfo(path)
	if err != nil {
		return "", err
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	return string(src), nil
}
