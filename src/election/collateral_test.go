package election

import (
	"testing"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
	"github.com/vigilnetworks/vigil/src/masternode"
)

func TestCollateralValidator(t *testing.T) {
	params := masternode.DefaultParams()
	e := newEnv(t, 10, params)
	validator := NewCollateralValidator(e.utxo, params)

	priv, _ := keys.GenerateKey()
	script := chain.ScriptForPubKey(priv.PubKey().SerializeCompressed())
	wantOwner := keys.PubKeyID(priv.PubKey())

	good := chain.Outpoint{TxID: "good", N: 0}
	e.utxo.AddOutput(good, chain.TxOut{Value: params.MinCollateral, Script: script}, params.MinConfirmations)

	owner, amount, ok := validator.Validate(good, false)
	if !ok {
		t.Fatalf("valid collateral rejected")
	}
	if owner != wantOwner || amount != params.MinCollateral {
		t.Fatalf("Validate => (%s, %d)", owner, amount)
	}

	// Nonexistent output.
	if _, _, ok := validator.Validate(chain.Outpoint{TxID: "missing", N: 0}, false); ok {
		t.Errorf("missing output accepted")
	}

	// Spent output.
	spent := chain.Outpoint{TxID: "spent", N: 0}
	e.utxo.AddOutput(spent, chain.TxOut{Value: params.MinCollateral, Script: script}, params.MinConfirmations)
	e.utxo.Spend(spent)
	if _, _, ok := validator.Validate(spent, false); ok {
		t.Errorf("spent output accepted")
	}

	// Below minimum value.
	small := chain.Outpoint{TxID: "small", N: 0}
	e.utxo.AddOutput(small, chain.TxOut{Value: params.MinCollateral - 1, Script: script}, params.MinConfirmations)
	if _, _, ok := validator.Validate(small, false); ok {
		t.Errorf("underfunded output accepted")
	}

	// Too few confirmations; accepted only with allowUnconfirmed.
	young := chain.Outpoint{TxID: "young", N: 0}
	e.utxo.AddOutput(young, chain.TxOut{Value: params.MinCollateral, Script: script}, params.MinConfirmations-1)
	if _, _, ok := validator.Validate(young, false); ok {
		t.Errorf("unconfirmed output accepted")
	}
	if _, _, ok := validator.Validate(young, true); !ok {
		t.Errorf("unconfirmed output rejected despite allowUnconfirmed")
	}

	// Locking script that resolves to no single key.
	badScript := chain.Outpoint{TxID: "badscript", N: 0}
	e.utxo.AddOutput(badScript, chain.TxOut{Value: params.MinCollateral, Script: []byte{0x01, 0x02}}, params.MinConfirmations)
	if _, _, ok := validator.Validate(badScript, false); ok {
		t.Errorf("malformed script accepted")
	}
}
