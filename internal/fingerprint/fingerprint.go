// Package fingerprint derives stable identities for input files so read
// positions can be checkpointed under a key that survives renames and
// restarts.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Identity strategies accepted by FromPath.
const (
	StrategyChecksum       = "checksum"
	StrategyDeviceAndInode = "deviceAndInode"
)

// DefaultChecksumSize is the number of leading bytes hashed by the checksum
// strategy.
const DefaultChecksumSize = 1024

// Checksum computes the SHA-256 hash of the first maxBytes of file and
// returns it as a hexadecimal string. Files smaller than maxBytes yield a
// FileSizeTooSmallError so the caller can skip them until enough content
// exists for a stable identity.
func Checksum(file *os.File, maxBytes int64) (string, error) {
	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	if info.Size() < maxBytes {
		return "", &FileSizeTooSmallError{
			Expected: maxBytes,
			Actual:   info.Size(),
		}
	}

	var reader io.Reader = file
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes)
	}

	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", fmt.Errorf("failed to compute checksum: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ChecksumFromPath opens path and computes its checksum fingerprint.
func ChecksumFromPath(path string, maxBytes int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open file: %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return Checksum(file, maxBytes)
}

// FromPath resolves the identity of the file at path using the given
// strategy. size applies to the checksum strategy only.
func FromPath(path, strategy string, size int64) (string, error) {
	switch strategy {
	case StrategyChecksum:
		return ChecksumFromPath(path, size)
	case StrategyDeviceAndInode:
		return FileIDFromPath(path)
	default:
		return "", fmt.Errorf("unsupported fingerprint strategy: %s", strategy)
	}
}
