package config

import (
	"fmt"
	"os"
)

const backupSuffix = ".mcpreflect.bak"

// BackupPath returns where BackupClientConfig stores the copy of path.
func BackupPath(path string) string {
	return path + backupSuffix
}

// BackupClientConfig copies a client config next to itself. An existing
// backup is kept so repeated installs never overwrite the pristine copy.
func BackupClientConfig(path string) error {
	if _, err := os.Stat(BackupPath(path)); err == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(BackupPath(path), data, 0600)
}

// RestoreClientConfig restores a client config from its backup and removes it.
func RestoreClientConfig(path string) error {
	bakPath := BackupPath(path)
	data, err := os.ReadFile(bakPath)
	if err != nil {
		return fmt.Errorf("no backup found at %s", bakPath)
	}
	if err := AtomicWriteFile(path, data, 0600); err != nil {
		return err
	}
	return os.Remove(bakPath)
}
