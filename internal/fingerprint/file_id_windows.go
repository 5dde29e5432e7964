//go:build windows

package fingerprint

import (
	"errors"
	"os"
)

func FileID(info os.FileInfo) (string, error) {
	return "", errors.New("unsupported OS: windows")
}
