package main

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// fallbackDir receives the figure when the working directory is read-only.
// It does not follow $TMPDIR, so the fallback path is always the same.
var fallbackDir = "/tmp"

// dirWritable reports whether the process may create files in dir.
func dirWritable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}

// OutputPath returns name inside dir when writable reports dir as writable,
// and name inside fallbackDir otherwise.
func OutputPath(dir, name string, writable func(string) bool) string {
	if writable(dir) {
		return filepath.Join(dir, name)
	}
	return filepath.Join(fallbackDir, name)
}
