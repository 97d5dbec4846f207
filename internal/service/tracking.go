package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewTrackingID returns PREFIX-YYYYMMDD-XXXXXXXX: the UTC date of at and
// four random bytes in upper-case hex.
func NewTrackingID(prefix string, at time.Time) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tracking id entropy: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, at.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(b))), nil
}
