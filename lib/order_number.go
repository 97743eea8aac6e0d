package lib

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber generates a human-readable order number in the format
// HS-YYYYMMDD-XXXX where XXXX is a random 4-character alphanumeric suffix.
// Distinct from the internal row id; shown to customers and used for
// tracking lookups.
func GenerateOrderNumber() string {
	// Use a local rand.Source + rand.Rand for thread safety
	src := rand.NewSource(time.Now().UnixNano())
	r := rand.New(src)

	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 4

	randomPart := make([]byte, length)
	for i := range randomPart {
		randomPart[i] = chars[r.Intn(len(chars))]
	}

	return fmt.Sprintf("HS-%s-%s", time.Now().Format("20060102"), string(randomPart))
}
