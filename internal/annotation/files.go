package annotation

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Filename derives the conventional annotation file name for a video path:
// "clips/wave.mp4" becomes "clips/wave_annotations.json".
func Filename(videoPath string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return base + "_annotations.json"
}

// BackupFile copies an existing annotation file to a timestamped sibling
// before it gets overwritten. It returns the backup path, or an empty string
// when there was nothing to back up.
func BackupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("opening annotation file for backup: %w", err)
	}
	defer src.Close()

	stamp := time.Now().Format("20060102_150405")
	backupPath := strings.TrimSuffix(path, ".json") + "_backup_" + stamp + ".json"

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying annotation file to backup: %w", err)
	}
	return backupPath, nil
}
