package crypto

import "crypto/sha256"

// SHA256 returns the SHA256 hash of the concatenation of the chunks.
func SHA256(chunks ...[]byte) []byte {
	hasher := sha256.New()
	for _, c := range chunks {
		hasher.Write(c)
	}
	return hasher.Sum(nil)
}
