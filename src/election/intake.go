package election

import (
	"github.com/sirupsen/logrus"
	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// OutcomeType classifies the result of ingesting an existence proof.
type OutcomeType int

const (
	// OutcomeAccept - the proof is valid. Relay says whether it is new and
	// should be forwarded; an exact duplicate is accepted but not relayed.
	OutcomeAccept OutcomeType = iota
	// OutcomeIgnore - the proof is stale but not punishable.
	OutcomeIgnore
	// OutcomePenalize - the sender should be penalized with Severity.
	OutcomePenalize
)

// Outcome is the intake decision for one proof.
type Outcome struct {
	Type     OutcomeType
	Severity int
	Relay    bool
}

func accept(relay bool) Outcome {
	return Outcome{Type: OutcomeAccept, Relay: relay}
}

func ignore() Outcome {
	return Outcome{Type: OutcomeIgnore}
}

func penalize(severity int) Outcome {
	return Outcome{Type: OutcomePenalize, Severity: severity}
}

// Intake validates, deduplicates and rate-limits inbound existence proofs.
type Intake struct {
	registry *Registry
	index    chain.Index
	clock    chain.Clock
	params   masternode.Params
	logger   *logrus.Entry
}

// NewIntake ...
func NewIntake(registry *Registry, index chain.Index, clock chain.Clock, params masternode.Params, logger *logrus.Entry) *Intake {
	return &Intake{
		registry: registry,
		index:    index,
		clock:    clock,
		params:   params,
		logger:   logger,
	}
}

// Ingest runs the intake rule chain on one proof. Side effects are confined
// to the masternode record: its proof list, and possibly its misbehaving
// flag. The caller applies the penalty and, on Relay, forwards the proof to
// peers that have not seen it.
func (in *Intake) Ingest(proof masternode.ExistenceProof) Outcome {
	head := in.index.Head()

	// Too old to ever have been legitimately relayed.
	if proof.Height < head-in.params.MonitoringPeriod {
		return penalize(20)
	}

	// Stale, but plausibly a product of benign propagation delay.
	if proof.Height < head-in.params.MonitoringPeriod/2 {
		return ignore()
	}

	mn := in.registry.GetOrRegister(proof.Outpoint)
	if mn == nil {
		return penalize(20)
	}

	// A signature that does not match the collateral owner is treated as
	// deliberate forgery.
	if !proof.Verify(mn.Owner) {
		return penalize(100)
	}

	in.logger.WithFields(logrus.Fields{
		"outpoint": proof.Outpoint.String(),
		"height":   proof.Height,
	}).Debug("Masternode existence proof")

	accepted, severity := mn.AddProof(proof, in.clock.NowMs(), head, in.params)
	if severity > 0 {
		return penalize(severity)
	}

	return accept(accepted)
}
