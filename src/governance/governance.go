package governance

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/election"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// PenaltySink receives the peer penalties decided by proof intake. The
// peer-management layer applies them; the governance core never disconnects
// anyone itself.
type PenaltySink interface {
	Penalize(peer string, severity int)
}

// Broadcaster forwards an accepted proof to peers. Except lists the peers
// already known to have seen the proof; forwarding to them is wasted
// bandwidth but harmless.
type Broadcaster interface {
	Broadcast(proof masternode.ExistenceProof, except []string)
}

// seenProof tracks which peers have seen a proof, keyed by the proof's
// identity hash. Height bounds its lifetime.
type seenProof struct {
	height int
	peers  map[string]bool
}

// Governance is the facade over the masternode election engine. One mutex
// serializes everything: chain connect/disconnect, proof intake from
// concurrent peer handlers, and local vote computation. The block index has
// its own internal lock, so read-only block lookups do not contend here.
type Governance struct {
	sync.Mutex

	params   masternode.Params
	index    chain.Index
	clock    chain.Clock
	registry *election.Registry
	intake   *election.Intake
	tally    *election.Tally

	penalties PenaltySink
	broadcast Broadcaster

	seen map[string]*seenProof

	// initialHeight is the height at which monitoring began. Scores and
	// votes are undefined before it. -1 until the first block connects.
	initialHeight int

	logger *logrus.Entry
}

// NewGovernance wires the engine together. penalties and broadcast may be
// nil, in which case intake outcomes are returned to the caller but not
// acted upon.
func NewGovernance(
	utxo chain.UTXOView,
	index chain.Index,
	clock chain.Clock,
	params masternode.Params,
	penalties PenaltySink,
	broadcast Broadcaster,
	logger *logrus.Entry,
) *Governance {
	validator := election.NewCollateralValidator(utxo, params)
	registry := election.NewRegistry(validator, params, logger)

	return &Governance{
		params:        params,
		index:         index,
		clock:         clock,
		registry:      registry,
		intake:        election.NewIntake(registry, index, clock, params, logger),
		tally:         election.NewTally(registry, index, params, logger),
		penalties:     penalties,
		broadcast:     broadcast,
		seen:          make(map[string]*seenProof),
		initialHeight: index.Head(),
		logger:        logger,
	}
}

// IngestExistenceProof is the entry point for proofs arriving from peers.
// Only accepted proofs enter the relay bookkeeping: the sender is remembered
// as having seen the proof and new proofs are forwarded to everyone else.
// Penalty outcomes are reported to the penalty sink and leave no trace.
func (g *Governance) IngestExistenceProof(sender string, proof masternode.ExistenceProof) election.Outcome {
	g.Lock()
	defer g.Unlock()

	outcome := g.intake.Ingest(proof)

	switch {
	case outcome.Type == election.OutcomePenalize && g.penalties != nil && sender != "":
		g.penalties.Penalize(sender, outcome.Severity)
	case outcome.Type == election.OutcomeAccept:
		sp := g.markSeen(proof)
		except := make([]string, 0, len(sp.peers)+1)
		for peer := range sp.peers {
			except = append(except, peer)
		}
		if sender != "" && !sp.peers[sender] {
			sp.peers[sender] = true
			except = append(except, sender)
		}
		if outcome.Relay && g.broadcast != nil {
			g.broadcast.Broadcast(proof, except)
		}
	}

	return outcome
}

// markSeen records an accepted proof in the relay bookkeeping. The retained
// height is clamped to the current head so that a proof claiming a future
// height cannot outlive the pruning window.
func (g *Governance) markSeen(proof masternode.ExistenceProof) *seenProof {
	hash := proof.Hash()
	sp, ok := g.seen[hash]
	if !ok {
		height := proof.Height
		if head := g.index.Head(); height > head {
			height = head
		}
		sp = &seenProof{height: height, peers: make(map[string]bool)}
		g.seen[hash] = sp
	}
	return sp
}

// OnBlockConnected is the chain-sync hook for a newly connected block. It
// stamps receive times, runs the ballot tally, sweeps the registry on its
// cadence, and produces self-proofs for the nodes we operate.
func (g *Governance) OnBlockConnected(block *chain.Block) error {
	g.Lock()
	defer g.Unlock()

	if g.initialHeight < 0 {
		g.initialHeight = block.Height
		g.logger.WithField("height", block.Height).Info("Masternode monitoring started")
	}

	stamped := g.stampReceiveTimes(block)

	if err := g.tally.Connect(block); err != nil {
		return err
	}

	if g.params.SweepInterval > 0 && block.Height%g.params.SweepInterval == 0 {
		g.registry.Sweep()
		g.pruneSeen(block.Height)
	}

	// Oldest first. A reorg can attach several blocks at once, and the
	// ancestors' challenge heights count as much as the tip's.
	for i := len(stamped) - 1; i >= 0; i-- {
		g.produceSelfProofs(stamped[i])
	}

	return nil
}

// OnBlockDisconnected is the chain-sync hook for a reorged-out block.
func (g *Governance) OnBlockDisconnected(block *chain.Block) error {
	g.Lock()
	defer g.Unlock()

	return g.tally.Disconnect(block)
}

// stampReceiveTimes stamps the connected block, and any unstamped ancestors
// a reorg may have attached with it, with the current monotonic time. A
// block is stamped at most once. It returns the newly stamped blocks, tip
// first.
func (g *Governance) stampReceiveTimes(block *chain.Block) []*chain.Block {
	now := g.clock.NowMs()

	var stamped []*chain.Block
	if block.ReceiveTime == 0 {
		block.ReceiveTime = now
		stamped = append(stamped, block)
	}

	for h := block.Height - 1; h >= g.initialHeight; h-- {
		b, err := g.index.Block(h)
		if err != nil || b.ReceiveTime != 0 {
			break
		}
		b.ReceiveTime = now
		if err := g.index.SetBlock(b); err != nil {
			g.logger.WithError(err).WithField("height", h).Error("Failed to stamp block")
			break
		}
		stamped = append(stamped, b)
	}

	return stamped
}

// produceSelfProofs signs and ingests an existence proof for every locally
// operated, election-requesting node whose challenge schedule includes the
// block. It is called once per newly stamped block.
func (g *Governance) produceSelfProofs(block *chain.Block) {
	for _, mn := range g.registry.Nodes() {
		if !mn.Operated || !mn.WantElected || mn.Signer == nil {
			continue
		}

		if !containsHeight(masternode.ChallengeBlocks(mn.Outpoint, g.index, g.params), block.Height) {
			continue
		}

		proof := masternode.ExistenceProof{
			Outpoint:  mn.Outpoint,
			Height:    block.Height,
			BlockHash: block.Hash,
		}
		if err := proof.Sign(mn.Signer); err != nil {
			g.logger.WithError(err).WithField("outpoint", mn.Outpoint.String()).Error("Failed to sign existence proof")
			continue
		}

		outcome := g.intake.Ingest(proof)
		if outcome.Type != election.OutcomeAccept {
			g.logger.WithFields(logrus.Fields{
				"outpoint": mn.Outpoint.String(),
				"height":   block.Height,
			}).Warn("Own existence proof was not accepted")
			continue
		}

		g.markSeen(proof)
		if outcome.Relay && g.broadcast != nil {
			g.broadcast.Broadcast(proof, nil)
		}
	}
}

// pruneSeen forgets relay-tracking entries that have aged out of the proof
// retention window.
func (g *Governance) pruneSeen(head int) {
	for hash, sp := range g.seen {
		if sp.height < head-2*g.params.MonitoringPeriod {
			delete(g.seen, hash)
		}
	}
}

// StartOperating enrolls a local node: this process holds its signing key.
func (g *Governance) StartOperating(op chain.Outpoint, signer masternode.Signer) bool {
	g.Lock()
	defer g.Unlock()

	return g.registry.StartOperating(op, signer)
}

// StopOperating detaches a local node's signing key.
func (g *Governance) StopOperating(op chain.Outpoint) {
	g.Lock()
	defer g.Unlock()

	g.registry.StopOperating(op)
}

// RequestElection marks whether an operated node should be promoted in our
// ballots and produce self-proofs.
func (g *Governance) RequestElection(op chain.Outpoint, want bool) bool {
	g.Lock()
	defer g.Unlock()

	return g.registry.RequestElection(op, want)
}

// ComputeLocalVotes produces this node's ballot for the next block template.
// A non-positive budget falls back to the configured default.
func (g *Governance) ComputeLocalVotes(budget int) (add, remove []chain.Outpoint) {
	g.Lock()
	defer g.Unlock()

	if budget <= 0 {
		budget = g.params.VoteBudget
	}

	return election.ComputeVotes(g.registry, g.index, g.initialHeight, budget, g.params)
}

func containsHeight(heights []int, h int) bool {
	for _, x := range heights {
		if x == h {
			return true
		}
	}
	return false
}
