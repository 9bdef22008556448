package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"path"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RandomAlphabetString generates a random lowercase string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// TextToMd5Hash returns the hex md5 digest of the input text.
func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileExtNameWithDot extracts the extension (".png") from a file name or
// URL, dropping any query string. Returns empty string when there is none.
func FileExtNameWithDot(name string) string {
	if idx := strings.IndexByte(name, '?'); idx >= 0 {
		name = name[:idx]
	}
	return path.Ext(name)
}
