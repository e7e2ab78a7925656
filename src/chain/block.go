package chain

import (
	"bytes"

	"github.com/ugorji/go/codec"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
)

// Flip is one election state change applied when a block was connected. It is
// recorded on the block so a disconnect can reverse it.
type Flip struct {
	Outpoint Outpoint
	Elected  bool
}

// Inverse returns the flip that undoes this one.
func (f Flip) Inverse() Flip {
	return Flip{Outpoint: f.Outpoint, Elected: !f.Elected}
}

// PayeeRecord is the payee chosen for a block.
type PayeeRecord struct {
	Outpoint Outpoint
	Owner    keys.KeyID
}

// Block is one entry of the block index. The governance core reads the hash
// and receive time, consumes the proposer's ballot, and writes the flip
// record and payee at connect time.
type Block struct {
	Height int
	Hash   string

	// ReceiveTime is the local monotonic time (ms) at which the block was
	// first connected. 0 means the block predates local monitoring.
	ReceiveTime int64

	// Ballot contributed by this block's proposer.
	AddVotes    []Outpoint
	RemoveVotes []Outpoint

	// Flips actually applied when this block was connected; consumed verbatim
	// on disconnect.
	Flips []Flip

	// Payee chosen when this block was connected.
	Payee *PayeeRecord
}

// Marshal - json encoding of the block record.
func (b *Block) Marshal() ([]byte, error) {
	bf := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(bf, jh)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return bf.Bytes(), nil
}

// Unmarshal ...
func (b *Block) Unmarshal(data []byte) error {
	bf := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(bf, jh)
	return dec.Decode(b)
}
