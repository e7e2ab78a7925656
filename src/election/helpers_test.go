package election

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vigilnetworks/vigil/src/chain"
	cm "github.com/vigilnetworks/vigil/src/common"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
	"github.com/vigilnetworks/vigil/src/masternode"
)

type env struct {
	params   masternode.Params
	utxo     *chain.InmemUTXO
	index    *chain.InmemIndex
	clock    *chain.FakeClock
	registry *Registry
	intake   *Intake
	tally    *Tally
}

func newEnv(t *testing.T, head int, params masternode.Params) *env {
	t.Helper()

	logger := cm.NewTestLogger(t).WithField("prefix", "test")

	utxo := chain.NewInmemUTXO()
	index := chain.NewInmemIndex()
	for h := 0; h <= head; h++ {
		if err := index.SetBlock(&chain.Block{
			Height:      h,
			Hash:        fmt.Sprintf("hash%06d", h),
			ReceiveTime: int64(1000 * (h + 1)),
		}); err != nil {
			t.Fatal(err)
		}
	}

	clock := &chain.FakeClock{Time: int64(1000 * (head + 2))}

	validator := NewCollateralValidator(utxo, params)
	registry := NewRegistry(validator, params, logger)

	return &env{
		params:   params,
		utxo:     utxo,
		index:    index,
		clock:    clock,
		registry: registry,
		intake:   NewIntake(registry, index, clock, params, logger),
		tally:    NewTally(registry, index, params, logger),
	}
}

// addCollateral funds a valid collateral output and returns its outpoint and
// the owner's signer.
func (e *env) addCollateral(t *testing.T, txid string) (chain.Outpoint, *keys.Signer) {
	t.Helper()

	priv, err := keys.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	op := chain.Outpoint{TxID: txid, N: 0}
	e.utxo.AddOutput(op, chain.TxOut{
		Value:  e.params.MinCollateral,
		Script: chain.ScriptForPubKey(priv.PubKey().SerializeCompressed()),
	}, e.params.MinConfirmations)

	return op, keys.NewSigner(priv)
}

// signedProof builds a valid proof for the indexed block at height.
func (e *env) signedProof(t *testing.T, op chain.Outpoint, signer *keys.Signer, height int) masternode.ExistenceProof {
	t.Helper()

	block, err := e.index.Block(height)
	if err != nil {
		t.Fatal(err)
	}

	proof := masternode.ExistenceProof{
		Outpoint:  op,
		Height:    height,
		BlockHash: block.Hash,
	}
	if err := proof.Sign(signer); err != nil {
		t.Fatal(err)
	}
	return proof
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.Level = logrus.ErrorLevel
	return logger.WithField("prefix", "test")
}
