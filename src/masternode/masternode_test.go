package masternode

import (
	"fmt"
	"testing"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
)

func TestAddProofDeduplicates(t *testing.T) {
	p := DefaultParams()
	m := NewMasterNode(chain.Outpoint{TxID: "aa", N: 0}, "owner", 10000*COIN)

	proof := ExistenceProof{Outpoint: m.Outpoint, Height: 100, BlockHash: "h100", Signature: "sig"}

	accepted, penalty := m.AddProof(proof, 5, 100, p)
	if !accepted || penalty != 0 {
		t.Fatalf("first AddProof => (%v, %d)", accepted, penalty)
	}

	// Exact duplicate: no-op, no penalty, no misbehaving.
	accepted, penalty = m.AddProof(proof, 9, 100, p)
	if accepted || penalty != 0 {
		t.Fatalf("duplicate AddProof => (%v, %d)", accepted, penalty)
	}
	if m.Misbehaving {
		t.Fatalf("duplicate flipped misbehaving")
	}
	if m.ProofCount() != 1 {
		t.Fatalf("proof count = %d, want 1", m.ProofCount())
	}
}

func TestAddProofCapFlagsMisbehaving(t *testing.T) {
	p := DefaultParams()
	m := NewMasterNode(chain.Outpoint{TxID: "aa", N: 0}, "owner", 10000*COIN)

	head := 100
	var accepted bool
	var penalty int
	for i := 0; i <= p.ProofCap()+1; i++ {
		proof := ExistenceProof{
			Outpoint:  m.Outpoint,
			Height:    head,
			BlockHash: fmt.Sprintf("variant%d", i),
		}
		accepted, penalty = m.AddProof(proof, int64(i+1), head, p)
	}

	if accepted || penalty != 20 {
		t.Fatalf("flooding AddProof => (%v, %d), want (false, 20)", accepted, penalty)
	}
	if !m.Misbehaving {
		t.Fatalf("flooded node not flagged misbehaving")
	}
}

func TestAddProofPrunesOldProofs(t *testing.T) {
	p := DefaultParams()
	m := NewMasterNode(chain.Outpoint{TxID: "aa", N: 0}, "owner", 10000*COIN)

	old := ExistenceProof{Outpoint: m.Outpoint, Height: 10, BlockHash: "h10"}
	if accepted, _ := m.AddProof(old, 1, 100, p); !accepted {
		t.Fatalf("old proof rejected at head 100")
	}

	// At a much later head, adding a fresh proof prunes the stale one.
	head := 10 + 2*p.MonitoringPeriod + 1
	fresh := ExistenceProof{Outpoint: m.Outpoint, Height: head, BlockHash: "hfresh"}
	if accepted, _ := m.AddProof(fresh, 2, head, p); !accepted {
		t.Fatalf("fresh proof rejected")
	}

	if m.ProofCount() != 1 {
		t.Fatalf("proof count = %d, want 1 after pruning", m.ProofCount())
	}
	if _, ok := m.findProof(10, "h10"); ok {
		t.Fatalf("stale proof survived pruning")
	}
}

func TestExistenceProofSignVerify(t *testing.T) {
	priv, err := keys.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signer := keys.NewSigner(priv)

	proof := ExistenceProof{
		Outpoint:  chain.Outpoint{TxID: "aa", N: 0},
		Height:    120,
		BlockHash: "h120",
	}
	if err := proof.Sign(signer); err != nil {
		t.Fatal(err)
	}

	if !proof.Verify(signer.KeyID()) {
		t.Fatalf("proof did not verify against the signing key")
	}

	otherPriv, _ := keys.GenerateKey()
	if proof.Verify(keys.PubKeyID(otherPriv.PubKey())) {
		t.Fatalf("proof verified against the wrong owner")
	}

	// Tampering with a signed field breaks verification.
	tampered := proof
	tampered.Height++
	if tampered.Verify(signer.KeyID()) {
		t.Fatalf("tampered proof verified")
	}

	// The identity hash covers the signature; the signed hash does not.
	resigned := proof
	if err := resigned.Sign(signer); err != nil {
		t.Fatal(err)
	}
	if string(resigned.SignedHash()) != string(proof.SignedHash()) {
		t.Fatalf("signed hash changed with the signature")
	}
}
