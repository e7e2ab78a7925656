package election

import (
	"testing"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/masternode"
)

func TestIngestAcceptAndRelay(t *testing.T) {
	e := newEnv(t, 160, masternode.DefaultParams())
	op, signer := e.addCollateral(t, "aa")

	proof := e.signedProof(t, op, signer, 155)

	outcome := e.intake.Ingest(proof)
	if outcome.Type != OutcomeAccept || !outcome.Relay {
		t.Fatalf("Ingest => %+v, want accept+relay", outcome)
	}

	mn := e.registry.Get(op)
	if mn == nil || mn.ProofCount() != 1 {
		t.Fatalf("proof not stored")
	}
}

func TestIngestDuplicateIsIdempotent(t *testing.T) {
	e := newEnv(t, 160, masternode.DefaultParams())
	op, signer := e.addCollateral(t, "aa")

	proof := e.signedProof(t, op, signer, 155)

	e.intake.Ingest(proof)
	outcome := e.intake.Ingest(proof)

	if outcome.Type != OutcomeAccept || outcome.Relay {
		t.Fatalf("duplicate Ingest => %+v, want accept without relay", outcome)
	}
	mn := e.registry.Get(op)
	if mn.ProofCount() != 1 {
		t.Fatalf("duplicate stored twice")
	}
	if mn.Misbehaving {
		t.Fatalf("duplicate flipped misbehaving")
	}
}

func TestIngestHeightWindows(t *testing.T) {
	head := 160
	e := newEnv(t, head, masternode.DefaultParams())
	op, signer := e.addCollateral(t, "aa")

	// Older than the full monitoring window: punishable.
	tooOld := e.signedProof(t, op, signer, head-e.params.MonitoringPeriod-1)
	if outcome := e.intake.Ingest(tooOld); outcome.Type != OutcomePenalize || outcome.Severity != 20 {
		t.Fatalf("too-old proof => %+v, want penalize 20", outcome)
	}

	// Between half and full window: stale, never penalized, never accepted.
	stale := e.signedProof(t, op, signer, head-60)
	if outcome := e.intake.Ingest(stale); outcome.Type != OutcomeIgnore {
		t.Fatalf("stale proof => %+v, want ignore", outcome)
	}
	if mn := e.registry.Get(op); mn != nil && mn.ProofCount() != 0 {
		t.Fatalf("stale proof was stored")
	}
}

func TestIngestUnknownCollateral(t *testing.T) {
	e := newEnv(t, 160, masternode.DefaultParams())

	// Signed by a real key, but no collateral backs the outpoint.
	_, signer := e.addCollateral(t, "real")
	fake := chain.Outpoint{TxID: "fake", N: 0}
	proof := e.signedProof(t, fake, signer, 155)

	if outcome := e.intake.Ingest(proof); outcome.Type != OutcomePenalize || outcome.Severity != 20 {
		t.Fatalf("unknown collateral => %+v, want penalize 20", outcome)
	}
}

func TestIngestForgedSignature(t *testing.T) {
	e := newEnv(t, 160, masternode.DefaultParams())
	op, _ := e.addCollateral(t, "aa")
	_, wrongSigner := e.addCollateral(t, "bb")

	proof := e.signedProof(t, op, wrongSigner, 155)

	if outcome := e.intake.Ingest(proof); outcome.Type != OutcomePenalize || outcome.Severity != 100 {
		t.Fatalf("forged proof => %+v, want penalize 100", outcome)
	}
}

func TestIngestFloodFlagsMisbehaving(t *testing.T) {
	params := masternode.DefaultParams()
	// A small monitoring period keeps the flood short.
	params.MonitoringPeriod = 10
	e := newEnv(t, 160, params)
	op, signer := e.addCollateral(t, "aa")

	var outcome Outcome
	for i := 0; i <= params.ProofCap()+1; i++ {
		proof := masternode.ExistenceProof{
			Outpoint:  op,
			Height:    156,
			BlockHash: "bogus-but-signed",
		}
		proof.BlockHash = proof.BlockHash + string(rune('a'+i%26)) + string(rune('a'+i/26))
		if err := proof.Sign(signer); err != nil {
			t.Fatal(err)
		}
		outcome = e.intake.Ingest(proof)
	}

	if outcome.Type != OutcomePenalize || outcome.Severity != 20 {
		t.Fatalf("flood => %+v, want penalize 20", outcome)
	}
	if !e.registry.Get(op).Misbehaving {
		t.Fatalf("flooded node not flagged misbehaving")
	}
}
