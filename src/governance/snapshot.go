package governance

import (
	"sort"

	"github.com/vigilnetworks/vigil/src/chain"
)

// NodeInfo is a read-only snapshot of one masternode record, shaped for the
// HTTP API.
type NodeInfo struct {
	Outpoint    string  `json:"outpoint"`
	Owner       string  `json:"owner"`
	Amount      uint64  `json:"amount"`
	Score       float64 `json:"score"`
	Misbehaving bool    `json:"misbehaving"`
	Operated    bool    `json:"operated"`
	Elected     bool    `json:"elected"`
	Proofs      int     `json:"proofs"`
}

// Stats summarizes the engine state.
type Stats struct {
	Head          int `json:"head"`
	InitialHeight int `json:"initial_height"`
	Known         int `json:"known_masternodes"`
	Elected       int `json:"elected"`
	Operated      int `json:"operated"`
}

// Masternodes snapshots every known record, sorted by outpoint, with scores
// refreshed against the current head.
func (g *Governance) Masternodes() []NodeInfo {
	g.Lock()
	defer g.Unlock()

	nodes := g.registry.Nodes()

	infos := make([]NodeInfo, 0, len(nodes))
	for _, mn := range nodes {
		mn.RefreshScore(g.index, g.initialHeight, g.params)

		infos = append(infos, NodeInfo{
			Outpoint:    mn.Outpoint.String(),
			Owner:       string(mn.Owner),
			Amount:      mn.Amount,
			Score:       mn.Score(),
			Misbehaving: mn.Misbehaving,
			Operated:    mn.Operated,
			Elected:     g.registry.IsElected(mn.Outpoint),
			Proofs:      mn.ProofCount(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Outpoint < infos[j].Outpoint })

	return infos
}

// ElectedRoster returns the elected outpoints in their total order.
func (g *Governance) ElectedRoster() []chain.Outpoint {
	g.Lock()
	defer g.Unlock()

	return g.registry.Elected()
}

// PayeeAt returns the payee recorded on the block at a height, or nil when
// the block carries none.
func (g *Governance) PayeeAt(height int) (*chain.PayeeRecord, error) {
	block, err := g.index.Block(height)
	if err != nil {
		return nil, err
	}
	return block.Payee, nil
}

// GetStats ...
func (g *Governance) GetStats() Stats {
	g.Lock()
	defer g.Unlock()

	operated := 0
	for _, mn := range g.registry.Nodes() {
		if mn.Operated {
			operated++
		}
	}

	return Stats{
		Head:          g.index.Head(),
		InitialHeight: g.initialHeight,
		Known:         len(g.registry.Nodes()),
		Elected:       g.registry.ElectedCount(),
		Operated:      operated,
	}
}
