// Package helpers contains a few helper functions which are used throughout
// the project.
package helpers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ProjectUserPath returns the directory in which the user files of the
// server are stored. The database, the logfile and the stored songs and
// covers all live here unless configured otherwise.
func ProjectUserPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding the user home directory: %w", err)
	}

	userPath := filepath.Join(homeDir, appDir)
	if err := os.MkdirAll(userPath, 0755); err != nil {
		return "", fmt.Errorf("creating the user path: %w", err)
	}

	return userPath, nil
}

// AbsolutePath returns path unchanged when it is already rooted and roots it
// in workDir otherwise.
func AbsolutePath(path, workDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

// SetLogsFile sets the logfile of the server.
func SetLogsFile(appfs afero.Fs, logFilePath string) error {
	if err := appfs.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("creating the logfile directory: %w", err)
	}

	logFile, err := appfs.Create(logFilePath)
	if err != nil {
		return fmt.Errorf("could not open logfile: %w", err)
	}

	log.SetOutput(logFile)
	return nil
}

// SetUpPidFile writes the process ID in pidFile so that the process may be
// found and stopped by its name.
func SetUpPidFile(appfs afero.Fs, pidFile string) error {
	fh, err := appfs.Create(pidFile)
	if err != nil {
		return fmt.Errorf("could not create pidfile: %w", err)
	}

	if _, err := fmt.Fprintf(fh, "%d", os.Getpid()); err != nil {
		fh.Close()
		appfs.Remove(pidFile)
		return fmt.Errorf("writing the pidfile: %w", err)
	}

	return fh.Close()
}

// RemovePidFile cleans up the file written by SetUpPidFile. Failures are
// only logged since there is nothing more to be done on shutdown.
func RemovePidFile(appfs afero.Fs, pidFile string) {
	if err := appfs.Remove(pidFile); err != nil {
		log.Printf("error removing the pidfile: %s\n", err)
	}
}
