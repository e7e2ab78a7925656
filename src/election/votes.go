package election

import (
	"math"
	"sort"

	"github.com/vigilnetworks/vigil/src/chain"
	cm "github.com/vigilnetworks/vigil/src/common"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// ranked pairs an outpoint with its ranking key for vote computation.
type ranked struct {
	op  chain.Outpoint
	key float64
}

// rankedLess orders by ascending key (lower score is better), with the
// outpoint total order as tiebreaker so two distinct nodes never compare
// equal.
func rankedLess(a, b ranked) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.op.Less(b.op)
}

// rankingKey is the score adjusted by a small bonus proportional to the
// collateral: at equal score, more collateral ranks better.
func rankingKey(mn *masternode.MasterNode) float64 {
	return mn.Score() - 0.001*float64(mn.Amount)/masternode.COIN
}

// ComputeVotes compares the elected roster against our own ranking of the
// known nodes and emits the differences as this node's ballot: incumbents we
// would not elect become remove-votes (worst-ranked first), candidates not
// yet elected become add-votes. The ballot is truncated to the vote budget,
// apportioned proportionally between the two lists.
func ComputeVotes(registry *Registry, index chain.Index, initialHeight int, budget int, params masternode.Params) (add, remove []chain.Outpoint) {
	// We must have been monitoring long enough to judge anyone.
	if index.Head() < initialHeight+params.MonitoringPeriodMin {
		return nil, nil
	}

	registry.Sweep()

	var known []ranked
	for _, mn := range registry.Nodes() {
		mn.RefreshScore(index, initialHeight, params)

		if mn.Score() > params.MaxScore {
			continue
		}
		// Operated nodes only run for election on request.
		if mn.Operated && !mn.WantElected {
			continue
		}
		known = append(known, ranked{op: mn.Outpoint, key: rankingKey(mn)})
	}

	var elected []ranked
	for _, op := range registry.Elected() {
		mn := registry.GetOrRegister(op)
		if mn == nil {
			// The incumbent's collateral is gone; rank it last so it is
			// removed first.
			elected = append(elected, ranked{op: op, key: math.Inf(1)})
			continue
		}
		mn.RefreshScore(index, initialHeight, params)
		elected = append(elected, ranked{op: op, key: rankingKey(mn)})
	}

	sort.Slice(known, func(i, j int) bool { return rankedLess(known[i], known[j]) })
	sort.Slice(elected, func(i, j int) bool { return rankedLess(elected[i], elected[j]) })

	if len(known) > params.MaxRoster {
		known = known[:params.MaxRoster]
	}

	// The differences between the elected roster and our opinion of what it
	// should be are our votes.
	removeRanked, addRanked := cm.SetDifferences(elected, known, rankedLess)

	// Remove the worst-ranked incumbents first.
	for i, j := 0, len(removeRanked)-1; i < j; i, j = i+1, j-1 {
		removeRanked[i], removeRanked[j] = removeRanked[j], removeRanked[i]
	}

	if total := len(removeRanked) + len(addRanked); total > budget {
		removeShare, addShare := cm.Apportion(budget, len(removeRanked), len(addRanked))
		removeRanked = removeRanked[:removeShare]
		addRanked = addRanked[:addShare]
	}

	for _, r := range removeRanked {
		remove = append(remove, r.op)
	}
	for _, r := range addRanked {
		add = append(add, r.op)
	}

	return add, remove
}
