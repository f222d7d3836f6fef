package util

import (
	"crypto/rand"
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n random lowercase alphanumerics, safe for object keys.
func RandomString(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(buf)
}
