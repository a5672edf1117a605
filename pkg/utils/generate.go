package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// referenceAlphabet leaves out 0/O and 1/I so references survive being read
// out over the phone.
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const referenceRandomLength = 6

// GenerateBookingReference creates a human-readable booking reference.
// Format: PREFIX-YYMMDD-XXXXXX
func GenerateBookingReference(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "BK"
	}

	var sb strings.Builder
	sb.WriteString(strings.ToUpper(prefix))
	sb.WriteByte('-')
	sb.WriteString(now.UTC().Format("060102"))
	sb.WriteByte('-')

	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < referenceRandomLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			n = big.NewInt(now.UnixNano() % int64(len(referenceAlphabet)))
		}
		sb.WriteByte(referenceAlphabet[n.Int64()])
	}

	return sb.String()
}
