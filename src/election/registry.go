package election

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// Registry is the single source of truth for known masternodes, the nodes we
// operate ourselves, and the elected roster. It is lazily populated: a record
// is created the first time an outpoint passes collateral validation, and
// retained until a sweep finds the collateral invalid. The registry performs
// no internal locking; the governance facade serializes all access.
type Registry struct {
	validator *CollateralValidator
	params    masternode.Params

	nodes map[chain.Outpoint]*masternode.MasterNode

	// elected is kept sorted in the outpoint total order.
	elected []chain.Outpoint

	logger *logrus.Entry
}

// NewRegistry ...
func NewRegistry(validator *CollateralValidator, params masternode.Params, logger *logrus.Entry) *Registry {
	return &Registry{
		validator: validator,
		params:    params,
		nodes:     make(map[chain.Outpoint]*masternode.MasterNode),
		logger:    logger,
	}
}

// GetOrRegister returns the record for an outpoint, creating it if the
// collateral validates. It returns nil when the outpoint is unknown and does
// not validate; nothing is stored in that case.
func (r *Registry) GetOrRegister(op chain.Outpoint) *masternode.MasterNode {
	if mn, ok := r.nodes[op]; ok {
		return mn
	}

	owner, amount, ok := r.validator.Validate(op, false)
	if !ok {
		return nil
	}

	mn := masternode.NewMasterNode(op, owner, amount)
	r.nodes[op] = mn

	r.logger.WithFields(logrus.Fields{
		"outpoint": op.String(),
		"owner":    owner,
		"amount":   amount,
	}).Debug("Registered masternode")

	return mn
}

// Get returns the record for an outpoint without registering it.
func (r *Registry) Get(op chain.Outpoint) *masternode.MasterNode {
	return r.nodes[op]
}

// Sweep removes every record whose collateral no longer validates. Hygiene,
// not consensus: elected entries are left to the ballot to de-elect.
func (r *Registry) Sweep() {
	for op := range r.nodes {
		if _, _, ok := r.validator.Validate(op, false); !ok {
			delete(r.nodes, op)
			r.logger.WithField("outpoint", op.String()).Debug("Swept masternode")
		}
	}
}

// Nodes returns all known records, in no particular order.
func (r *Registry) Nodes() []*masternode.MasterNode {
	nodes := make([]*masternode.MasterNode, 0, len(r.nodes))
	for _, mn := range r.nodes {
		nodes = append(nodes, mn)
	}
	return nodes
}

// Elected returns a copy of the elected roster, sorted in the outpoint total
// order.
func (r *Registry) Elected() []chain.Outpoint {
	return append([]chain.Outpoint{}, r.elected...)
}

// ElectedCount ...
func (r *Registry) ElectedCount() int {
	return len(r.elected)
}

// IsElected ...
func (r *Registry) IsElected(op chain.Outpoint) bool {
	i := sort.Search(len(r.elected), func(i int) bool { return !r.elected[i].Less(op) })
	return i < len(r.elected) && r.elected[i] == op
}

// Elect adds an outpoint to the elected roster. It returns false when the
// outpoint was already elected (idempotent no-op).
func (r *Registry) Elect(op chain.Outpoint) bool {
	i := sort.Search(len(r.elected), func(i int) bool { return !r.elected[i].Less(op) })
	if i < len(r.elected) && r.elected[i] == op {
		return false
	}
	r.elected = append(r.elected, chain.Outpoint{})
	copy(r.elected[i+1:], r.elected[i:])
	r.elected[i] = op
	return true
}

// Unelect removes an outpoint from the elected roster. It returns false when
// the outpoint was not elected.
func (r *Registry) Unelect(op chain.Outpoint) bool {
	i := sort.Search(len(r.elected), func(i int) bool { return !r.elected[i].Less(op) })
	if i >= len(r.elected) || r.elected[i] != op {
		return false
	}
	r.elected = append(r.elected[:i], r.elected[i+1:]...)
	return true
}

// StartOperating marks an outpoint as operated by this process, attaching its
// signing capability. The record must exist or be registrable.
func (r *Registry) StartOperating(op chain.Outpoint, signer masternode.Signer) bool {
	mn := r.GetOrRegister(op)
	if mn == nil {
		return false
	}
	mn.Operated = true
	mn.Signer = signer
	return true
}

// StopOperating detaches the signing capability from an operated record.
func (r *Registry) StopOperating(op chain.Outpoint) {
	if mn := r.Get(op); mn != nil {
		mn.Operated = false
		mn.Signer = nil
		mn.WantElected = false
	}
}

// RequestElection records whether we promote an operated node in our votes.
// It returns false for outpoints we do not operate.
func (r *Registry) RequestElection(op chain.Outpoint, want bool) bool {
	mn := r.Get(op)
	if mn == nil || !mn.Operated {
		return false
	}
	mn.WantElected = want
	return true
}
