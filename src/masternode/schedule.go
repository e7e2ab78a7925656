package masternode

import (
	"encoding/binary"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto"
)

// ChallengeBlocks computes the heights at which a node must prove existence,
// given the current chain. Below the bootstrap height the schedule is empty.
//
// The two most recent restart windows are considered, each aligned to a
// multiple of RestartPeriod. A window's schedule starts at a pseudo-random
// phase derived from the hash of the block AnnouncePeriod blocks before the
// window start, mixed with the node's outpoint, and repeats every
// AnnouncePeriod blocks. The phase cannot be precomputed before the seed
// block exists, yet any observer can recompute the schedule once it does.
func ChallengeBlocks(op chain.Outpoint, index chain.Index, p Params) []int {
	head := index.Head()
	if head < p.BootstrapHeight() {
		return nil
	}

	var v []int

	windowStart := head / p.RestartPeriod * p.RestartPeriod
	for i := 1; i >= 0; i-- {
		seed := windowStart - i*p.RestartPeriod

		seedBlock, err := index.Block(seed - p.AnnouncePeriod)
		if err != nil {
			continue
		}

		digest := crypto.SHA256([]byte(seedBlock.Hash), op.Bytes())
		shift := int(binary.LittleEndian.Uint64(digest[:8]) % uint64(p.AnnouncePeriod))

		for j := seed + shift; j < seed+p.RestartPeriod; j += p.AnnouncePeriod {
			if j <= head && j > head-p.RestartPeriod {
				v = append(v, j)
			}
		}
	}

	return v
}
