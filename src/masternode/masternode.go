package masternode

import (
	"math"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/crypto/keys"
)

// receivedProof pairs an existence proof with the local monotonic time at
// which it arrived.
type receivedProof struct {
	proof       ExistenceProof
	receiveTime int64
}

// MasterNode is one collateral-backed candidate node. Records are created by
// the registry after collateral validation and retained until a sweep finds
// the collateral invalid.
type MasterNode struct {
	// Outpoint of the locked collateral. Primary key, immutable.
	Outpoint chain.Outpoint

	// Owner is the key identity the collateral's locking script resolves to.
	Owner keys.KeyID

	// Amount is the locked value. Used as a ranking tiebreaker.
	Amount uint64

	// Misbehaving is sticky: once set it is never cleared for the lifetime
	// of the record, and forces the worst possible score.
	Misbehaving bool

	// Operated is true when this process controls the node's signing key.
	Operated bool

	// Signer is the signing capability of an operated node, nil otherwise.
	Signer Signer

	// WantElected is set through RequestElection on operated nodes. Only
	// requesting nodes are promoted in our votes and produce self-proofs.
	WantElected bool

	proofs []receivedProof

	// score cache
	score           float64
	lastScoreUpdate int
}

// NewMasterNode ...
func NewMasterNode(op chain.Outpoint, owner keys.KeyID, amount uint64) *MasterNode {
	return &MasterNode{
		Outpoint:        op,
		Owner:           owner,
		Amount:          amount,
		lastScoreUpdate: math.MinInt32,
	}
}

// AddProof lets the record decide the fate of a verified proof. It returns
// accepted=true when the proof was appended and should be relayed. A penalty
// greater than zero means the sender should be punished: the record flags
// itself misbehaving when it accumulates more proofs than the monitoring
// window can legitimately produce. An exact duplicate is a no-op with no
// penalty.
func (m *MasterNode) AddProof(proof ExistenceProof, receiveTime int64, head int, p Params) (accepted bool, penalty int) {
	hash := proof.Hash()
	for _, rp := range m.proofs {
		if rp.proof.Hash() == hash {
			return false, 0
		}
	}

	m.pruneProofs(head, p)

	if len(m.proofs) > p.ProofCap() {
		m.Misbehaving = true
		return false, 20
	}

	m.proofs = append(m.proofs, receivedProof{proof: proof, receiveTime: receiveTime})
	return true, 0
}

// pruneProofs drops proofs older than twice the monitoring window.
func (m *MasterNode) pruneProofs(head int, p Params) {
	kept := m.proofs[:0]
	for _, rp := range m.proofs {
		if rp.proof.Height >= head-2*p.MonitoringPeriod {
			kept = append(kept, rp)
		}
	}
	m.proofs = kept
}

// findProof returns the received proof matching a block's height and hash.
func (m *MasterNode) findProof(height int, blockHash string) (receivedProof, bool) {
	for _, rp := range m.proofs {
		if rp.proof.Height == height && rp.proof.BlockHash == blockHash {
			return rp, true
		}
	}
	return receivedProof{}, false
}

// ProofCount returns the number of retained proofs.
func (m *MasterNode) ProofCount() int {
	return len(m.proofs)
}
