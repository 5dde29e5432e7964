package fingerprint

import "os"

// FileIDFromPath resolves the device-and-inode identity of the file at path.
func FileIDFromPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	return FileID(info)
}
