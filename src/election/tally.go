package election

import (
	"github.com/sirupsen/logrus"
	"github.com/vigilnetworks/vigil/src/chain"
	cm "github.com/vigilnetworks/vigil/src/common"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// Tally turns the ballots of a trailing window of blocks into binding
// election decisions. Decisions applied at connect time are recorded on the
// block as flips and reversed verbatim at disconnect time, which makes the
// elected roster reorg-safe and replayable from ledger data alone.
type Tally struct {
	registry *Registry
	index    chain.Index
	params   masternode.Params
	logger   *logrus.Entry
}

// NewTally ...
func NewTally(registry *Registry, index chain.Index, params masternode.Params, logger *logrus.Entry) *Tally {
	return &Tally{
		registry: registry,
		index:    index,
		params:   params,
		logger:   logger,
	}
}

// windowVotes accumulates the ballots of the ElectionPeriod blocks preceding
// height.
func (t *Tally) windowVotes(height int) (addCounts, removeCounts map[chain.Outpoint]int) {
	addCounts = make(map[chain.Outpoint]int)
	removeCounts = make(map[chain.Outpoint]int)

	for i := 0; i < t.params.ElectionPeriod; i++ {
		h := height - 1 - i
		if h < 0 {
			break
		}
		b, err := t.index.Block(h)
		if err != nil {
			break
		}
		for _, op := range b.AddVotes {
			addCounts[op]++
		}
		for _, op := range b.RemoveVotes {
			removeCounts[op]++
		}
	}

	return addCounts, removeCounts
}

// Connect tallies the window behind a newly connected block, applies the
// binding decisions to the elected roster, records the flips on the block,
// and picks the block's payee. The block record is persisted back to the
// index.
func (t *Tally) Connect(block *chain.Block) error {
	addCounts, removeCounts := t.windowVotes(block.Height)

	// Learn about every outpoint the network is voting on.
	for op := range addCounts {
		t.registry.GetOrRegister(op)
	}
	for op := range removeCounts {
		t.registry.GetOrRegister(op)
	}

	// A decision binds when more than half the window voted for it. Flips
	// are applied in the outpoint total order so every node produces the
	// same record; an already-satisfied decision is a no-op and is not
	// recorded.
	threshold := t.params.ElectionPeriod / 2

	var flips []chain.Flip

	for _, op := range sortedKeys(addCounts) {
		if addCounts[op] > threshold && t.registry.Elect(op) {
			flips = append(flips, chain.Flip{Outpoint: op, Elected: true})
		}
	}
	for _, op := range sortedKeys(removeCounts) {
		if removeCounts[op] > threshold && t.registry.Unelect(op) {
			flips = append(flips, chain.Flip{Outpoint: op, Elected: false})
		}
	}

	block.Flips = flips

	if len(flips) > 0 {
		t.logger.WithFields(logrus.Fields{
			"height": block.Height,
			"flips":  len(flips),
		}).Debug("Applied election flips")
	}

	t.pickPayee(block)

	return t.index.SetBlock(block)
}

// pickPayee rotates the payment to the next elected node, seeding the
// rotation from the previous block's recorded payee.
func (t *Tally) pickPayee(block *chain.Block) {
	var prev *chain.Outpoint
	if block.Height > 0 {
		if prevBlock, err := t.index.Block(block.Height - 1); err == nil && prevBlock.Payee != nil {
			op := prevBlock.Payee.Outpoint
			prev = &op
		}
	}

	payee, ok := NextPayee(t.registry.Elected(), prev, t.params)
	if !ok {
		block.Payee = nil
		return
	}

	record := &chain.PayeeRecord{Outpoint: payee}
	if mn := t.registry.Get(payee); mn != nil {
		record.Owner = mn.Owner
	}
	block.Payee = record
}

// Disconnect reverses the flips recorded on a block, in reverse order of
// application. A flip that cannot be reversed means the chain state is
// corrupted; that is a fatal invariant violation, not a recoverable error.
func (t *Tally) Disconnect(block *chain.Block) error {
	for i := len(block.Flips) - 1; i >= 0; i-- {
		inv := block.Flips[i].Inverse()

		var changed bool
		if inv.Elected {
			changed = t.registry.Elect(inv.Outpoint)
		} else {
			changed = t.registry.Unelect(inv.Outpoint)
		}
		if !changed {
			cm.Invariantf("flip %v at height %d cannot be reversed", block.Flips[i], block.Height)
		}
	}

	return t.index.SetHead(block.Height - 1)
}

func sortedKeys(counts map[chain.Outpoint]int) []chain.Outpoint {
	ops := make([]chain.Outpoint, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	chain.SortOutpoints(ops)
	return ops
}
