//go:build linux || darwin

package fingerprint

import (
	"fmt"
	"os"
	"syscall"
)

// FileID formats the device and inode numbers of info. The pair stays the
// same across renames and appends, and changes when a file is deleted and
// recreated.
func FileID(info os.FileInfo) (string, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", fmt.Errorf("failed to get raw stat_t data")
	}
	return fmt.Sprintf("dev:%d-ino:%d", stat.Dev, stat.Ino), nil
}
