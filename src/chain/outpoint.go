package chain

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ugorji/go/codec"
)

// Outpoint identifies a transaction output: the collateral that backs a
// masternode. It is the masternode's primary key.
type Outpoint struct {
	TxID string // hex-encoded transaction id
	N    uint32 // output index
}

// String ...
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.N)
}

// Less defines the total order over outpoints used by the elected roster and
// the payee rotation.
func (o Outpoint) Less(other Outpoint) bool {
	if o.TxID != other.TxID {
		return o.TxID < other.TxID
	}
	return o.N < other.N
}

// IsZero reports whether the outpoint is the zero value.
func (o Outpoint) IsZero() bool {
	return o.TxID == "" && o.N == 0
}

// Bytes - json encoding of the outpoint, used as hashing input.
func (o Outpoint) Bytes() []byte {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)
	if err := enc.Encode(o); err != nil {
		return nil
	}
	return b.Bytes()
}

// SortOutpoints sorts a slice of outpoints in their total order.
func SortOutpoints(ops []Outpoint) {
	sort.Slice(ops, func(i, j int) bool { return ops[i].Less(ops[j]) })
}
