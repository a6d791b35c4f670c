package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/yambs-build/yambs/internal/fsx"
)

// Fingerprint is the SHA-256 hex digest of a byte slice (spec §4.4:
// "content hash (SHA-256 hex, prefix sufficient)"). The open question of
// which hash to use is resolved in DESIGN.md: SHA-256 is the simplest
// collision-resistant 128-bit-or-more choice, and the stdlib already
// carries it — nothing in the corpus wires in an ecosystem hash package.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile hashes the file at path, used for both manifests and the
// source files they enumerate.
func FingerprintFile(fs fsx.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Fingerprint(data), nil
}

// FilenameKey truncates a fingerprint to a filesystem-friendly filename
// (spec §4.4 "prefix sufficient"), while callers keep the full digest
// inside the record for comparison.
func FilenameKey(fingerprint string) string {
	if len(fingerprint) < 32 {
		return fingerprint
	}
	return fingerprint[:32]
}
