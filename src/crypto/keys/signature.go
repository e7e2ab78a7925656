package keys

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
)

// SignCompact produces a compact signature of the digest. Compact signatures
// embed the information needed to recover the public key, so existence-proof
// messages do not carry the signer's key.
func SignCompact(priv *btcec.PrivateKey, digest []byte) (string, error) {
	sig, err := btcec.SignCompact(btcec.S256(), priv, digest, true)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// RecoverCompact returns the public key that produced a compact signature
// over the digest. An error means the signature is malformed; a successful
// recovery still has to be checked against the expected key identity.
func RecoverCompact(sig string, digest []byte) (*btcec.PublicKey, error) {
	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return nil, err
	}
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sigBytes, digest)
	if err != nil {
		return nil, err
	}
	return pub, nil
}
