package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RollingWriter rotates the log at path once it reaches maxSizeMB, keeping
// maxBackups old files
func RollingWriter(path string, maxSizeMB, maxBackups int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
}

// Output picks stdout when path is empty, otherwise a rolling file. The
// returned close func is never nil.
func Output(stdout io.Writer, path string, maxSizeMB, maxBackups int) (io.Writer, func() error) {
	if path == "" {
		return stdout, func() error { return nil }
	}
	w := RollingWriter(path, maxSizeMB, maxBackups)
	return w, w.Close
}
