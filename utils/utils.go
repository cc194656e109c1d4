package utils

import (
	"math/rand"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Seed once so concurrently running test binaries do not draw the same
// temp DB names from the default deterministic sequence.
func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandomAlphabetString returns a random lower case string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
