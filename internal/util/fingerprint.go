package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint computes a stable hash identifying an issue location.
func Fingerprint(swcID, file string, line int, context string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", swcID, file, line, context)
	return hex.EncodeToString(h.Sum(nil))
}
