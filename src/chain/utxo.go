package chain

import (
	"sync"

	"github.com/vigilnetworks/vigil/src/crypto/keys"
)

// TxOut is an unspent transaction output as reported by the chain-state
// collaborator.
type TxOut struct {
	Value  uint64
	Script []byte
}

// UTXOView is the chain-state collaborator consulted to validate collaterals.
// Output returns ok=false when the referenced output does not exist or is
// already spent.
type UTXOView interface {
	Output(op Outpoint) (out TxOut, confirmations int, ok bool)
}

// P2PK locking script framing: a push of the 33-byte compressed public key
// followed by OP_CHECKSIG.
const (
	pubKeyLen  = 33
	opChecksig = 0xac
)

// ScriptForPubKey builds the pay-to-pubkey locking script for a compressed
// public key serialization.
func ScriptForPubKey(compressed []byte) []byte {
	script := make([]byte, 0, len(compressed)+2)
	script = append(script, byte(len(compressed)))
	script = append(script, compressed...)
	script = append(script, opChecksig)
	return script
}

// ExtractKeyID resolves a locking script to a single key identity. It returns
// ok=false for any script that is not a well-formed pay-to-pubkey script with
// a valid curve point.
func ExtractKeyID(script []byte) (keys.KeyID, bool) {
	if len(script) != pubKeyLen+2 || script[0] != pubKeyLen || script[len(script)-1] != opChecksig {
		return "", false
	}
	pub, err := keys.ParsePubKey(script[1 : 1+pubKeyLen])
	if err != nil {
		return "", false
	}
	return keys.PubKeyID(pub), true
}

// InmemUTXO is an in-memory UTXOView used in tests and by hosts that mirror
// their coin database into the governance process.
type InmemUTXO struct {
	sync.RWMutex
	outputs map[Outpoint]*inmemOutput
}

type inmemOutput struct {
	out           TxOut
	confirmations int
	spent         bool
}

// NewInmemUTXO ...
func NewInmemUTXO() *InmemUTXO {
	return &InmemUTXO{
		outputs: make(map[Outpoint]*inmemOutput),
	}
}

// AddOutput registers an unspent output with a confirmation count.
func (u *InmemUTXO) AddOutput(op Outpoint, out TxOut, confirmations int) {
	u.Lock()
	defer u.Unlock()
	u.outputs[op] = &inmemOutput{out: out, confirmations: confirmations}
}

// Spend marks an output as spent.
func (u *InmemUTXO) Spend(op Outpoint) {
	u.Lock()
	defer u.Unlock()
	if o, ok := u.outputs[op]; ok {
		o.spent = true
	}
}

// SetConfirmations updates the confirmation count of an output.
func (u *InmemUTXO) SetConfirmations(op Outpoint, confirmations int) {
	u.Lock()
	defer u.Unlock()
	if o, ok := u.outputs[op]; ok {
		o.confirmations = confirmations
	}
}

// Output implements UTXOView.
func (u *InmemUTXO) Output(op Outpoint) (TxOut, int, bool) {
	u.RLock()
	defer u.RUnlock()
	o, ok := u.outputs[op]
	if !ok || o.spent {
		return TxOut{}, 0, false
	}
	return o.out, o.confirmations, true
}
