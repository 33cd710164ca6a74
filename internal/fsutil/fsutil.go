// Package fsutil provides small filesystem helpers shared by the components
// that persist line and blob files.
package fsutil

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteFileAtomic writes data through a temp file in the target directory and
// renames it into place, so readers never observe a partial file. The parent
// directory is created on demand.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	// Permission tightening is best effort.
	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// AppendLine opens path in append mode, creating it with perm when absent,
// and writes line followed by a newline.
func AppendLine(path string, line string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadLines reads path and returns its non-empty lines in order. A missing
// file yields no lines and no error when allowAbsent is set.
func ReadLines(path string, allowAbsent bool) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowAbsent && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
