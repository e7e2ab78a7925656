package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/vigilnetworks/vigil/src/crypto"
)

/*
Masternode keys are secp256k1, the curve used by the collateral chain itself.
We use btcsuite's golang implementation, which also provides the compact
signature scheme that lets a verifier recover the signer's public key from
the signature alone.
*/

// KeyIDSize is the number of bytes retained from the public-key hash.
const KeyIDSize = 20

// KeyID is the identity derived from a public key. It is the hex encoding of
// the first KeyIDSize bytes of the SHA256 of the compressed public key, and
// is what a collateral's locking script resolves to.
type KeyID string

// GenerateKey creates a new secp256k1 private key.
func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey(btcec.S256())
}

// ParsePrivateKey builds a private key from its 32-byte serialization.
func ParsePrivateKey(d []byte) (*btcec.PrivateKey, error) {
	if len(d) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid private key length: got %d, want %d", len(d), btcec.PrivKeyBytesLen)
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), d)
	return priv, nil
}

// DumpPrivateKey exports a private key into a 32-byte serialization.
func DumpPrivateKey(priv *btcec.PrivateKey) []byte {
	if priv == nil {
		return nil
	}
	return priv.Serialize()
}

// ParsePubKey builds a public key from its compressed or uncompressed
// serialization.
func ParsePubKey(pub []byte) (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(pub, btcec.S256())
}

// PubKeyID derives the key identity of a public key.
func PubKeyID(pub *btcec.PublicKey) KeyID {
	if pub == nil {
		return ""
	}
	digest := crypto.SHA256(pub.SerializeCompressed())
	return KeyID(hex.EncodeToString(digest[:KeyIDSize]))
}
