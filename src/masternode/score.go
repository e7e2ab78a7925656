package masternode

import "github.com/vigilnetworks/vigil/src/chain"

/*
A node's score is the mean response delay, in seconds, over its challenge
blocks: zero when a matching proof arrived no later than the block itself,
the proof-to-block delay when it arrived later, and PenaltySeconds when no
proof matched at all. Lower is better. Challenge blocks at or below the
initial height are skipped because monitoring had not started. Misbehaving
nodes score the sentinel, worse than anything an honest node can reach.
*/

// ComputeScore computes the node's score from scratch. It is pure: the score
// cache is only touched by RefreshScore.
func (m *MasterNode) ComputeScore(index chain.Index, initialHeight int, p Params) float64 {
	if m.Misbehaving {
		return p.MisbehavingScore()
	}

	score := 0.0
	nblocks := 0

	for _, h := range ChallengeBlocks(m.Outpoint, index, p) {
		if h <= initialHeight {
			continue
		}
		nblocks++

		block, err := index.Block(h)
		if err != nil {
			score += p.PenaltySeconds
			continue
		}

		delay := p.PenaltySeconds
		if rp, ok := m.findProof(block.Height, block.Hash); ok {
			if block.ReceiveTime == 0 || rp.receiveTime <= block.ReceiveTime {
				delay = 0
			} else {
				delay = float64(rp.receiveTime-block.ReceiveTime) * 0.001
			}
		}
		score += delay
	}

	if nblocks != 0 {
		score /= float64(nblocks)
	}

	return score
}

// RefreshScore recomputes the cached score if it is more than ScoreCacheDepth
// blocks behind the head.
func (m *MasterNode) RefreshScore(index chain.Index, initialHeight int, p Params) {
	head := index.Head()
	if m.lastScoreUpdate >= head-p.ScoreCacheDepth {
		return
	}
	m.score = m.ComputeScore(index, initialHeight, p)
	m.lastScoreUpdate = head
}

// Score returns the cached score. Callers are expected to RefreshScore first.
func (m *MasterNode) Score() float64 {
	return m.score
}
