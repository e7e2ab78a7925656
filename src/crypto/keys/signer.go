package keys

import "github.com/btcsuite/btcd/btcec"

// Signer wraps a private key behind the signing capability used by locally
// operated masternodes.
type Signer struct {
	priv *btcec.PrivateKey
}

// NewSigner ...
func NewSigner(priv *btcec.PrivateKey) *Signer {
	return &Signer{priv: priv}
}

// Sign produces a compact signature of the digest.
func (s *Signer) Sign(digest []byte) (string, error) {
	return SignCompact(s.priv, digest)
}

// KeyID returns the identity of the signing key.
func (s *Signer) KeyID() KeyID {
	return PubKeyID(s.priv.PubKey())
}
