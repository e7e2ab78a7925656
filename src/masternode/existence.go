package masternode

import (
	"bytes"
	"encoding/hex"

	"github.com/ugorji/go/codec"
	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
)

// Signer is the opaque signing capability of a locally operated masternode.
type Signer interface {
	// Sign produces a compact signature of a digest.
	Sign(digest []byte) (string, error)
}

// ExistenceProof is a signed claim that a masternode was online and aware of
// a specific block.
type ExistenceProof struct {
	Outpoint  chain.Outpoint
	Height    int
	BlockHash string
	Signature string
}

// payload is the signed portion of a proof: everything but the signature.
type payload struct {
	Outpoint  chain.Outpoint
	Height    int
	BlockHash string
}

func jsonMarshal(v interface{}) []byte {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)
	if err := enc.Encode(v); err != nil {
		return nil
	}
	return b.Bytes()
}

// SignedHash is the digest covered by the signature: outpoint, height and
// block hash.
func (p ExistenceProof) SignedHash() []byte {
	return crypto.SHA256(jsonMarshal(payload{
		Outpoint:  p.Outpoint,
		Height:    p.Height,
		BlockHash: p.BlockHash,
	}))
}

// Hash is the proof's identity for dedup and relay tracking. It covers every
// field, including the signature.
func (p ExistenceProof) Hash() string {
	return hex.EncodeToString(crypto.SHA256(jsonMarshal(p)))
}

// Sign fills in the proof's signature using the node's signing capability.
func (p *ExistenceProof) Sign(signer Signer) error {
	sig, err := signer.Sign(p.SignedHash())
	if err != nil {
		return err
	}
	p.Signature = sig
	return nil
}

// Verify checks the proof's signature against the expected owner identity.
func (p ExistenceProof) Verify(owner keys.KeyID) bool {
	pub, err := keys.RecoverCompact(p.Signature, p.SignedHash())
	if err != nil {
		return false
	}
	return keys.PubKeyID(pub) == owner
}
