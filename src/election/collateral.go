package election

import (
	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// CollateralValidator confirms that an outpoint is a legitimate masternode
// collateral: the output exists, is unspent, carries at least the minimum
// value, is buried under enough confirmations, and its locking script
// resolves to a single key identity. It has no side effects.
type CollateralValidator struct {
	utxo   chain.UTXOView
	params masternode.Params
}

// NewCollateralValidator ...
func NewCollateralValidator(utxo chain.UTXOView, params masternode.Params) *CollateralValidator {
	return &CollateralValidator{
		utxo:   utxo,
		params: params,
	}
}

// Validate returns the collateral's owner identity and value, or ok=false if
// the outpoint does not qualify.
func (v *CollateralValidator) Validate(op chain.Outpoint, allowUnconfirmed bool) (owner keys.KeyID, amount uint64, ok bool) {
	out, confirmations, ok := v.utxo.Output(op)
	if !ok {
		return "", 0, false
	}

	if !allowUnconfirmed && confirmations < v.params.MinConfirmations {
		return "", 0, false
	}

	if out.Value < v.params.MinCollateral {
		return "", 0, false
	}

	owner, ok = chain.ExtractKeyID(out.Script)
	if !ok {
		return "", 0, false
	}

	return owner, out.Value, true
}
