package masternode

// COIN is the number of base units in one coin.
const COIN = 100000000

// Params are the consensus-sensitive constants of the governance layer. They
// must be identical on every node of the network.
type Params struct {
	// RestartPeriod is the size, in blocks, of a challenge window. Challenge
	// schedules are derived per window, aligned to multiples of this value.
	RestartPeriod int

	// AnnouncePeriod is the spacing, in blocks, between a node's challenge
	// blocks inside a window. The seed block of a window is the block
	// AnnouncePeriod blocks before the window start.
	AnnouncePeriod int

	// MonitoringPeriod is the trailing window, in blocks, over which
	// existence proofs are retained and rated.
	MonitoringPeriod int

	// MonitoringPeriodMin is the number of blocks we must have been
	// monitoring before casting votes.
	MonitoringPeriodMin int

	// PenaltySeconds is the delay attributed to a challenge block with no
	// matching proof.
	PenaltySeconds float64

	// MaxScore is the worst score a node may have and still be considered a
	// candidate for election.
	MaxScore float64

	// MinConfirmations is the confirmation depth required of a collateral.
	MinConfirmations int

	// MinCollateral is the minimum value of a collateral output.
	MinCollateral uint64

	// MaxRoster caps the number of masternodes this node votes to elect.
	MaxRoster int

	// VoteBudget caps the number of votes contributed per ballot.
	VoteBudget int

	// ElectionPeriod is the trailing window, in blocks, over which ballots
	// are tallied. A vote direction binds when its count exceeds half this
	// window.
	ElectionPeriod int

	// PayeeStartMin is the elected-roster size required before the first
	// payment.
	PayeeStartMin int

	// PayeeContinueMin is the roster size required to keep paying once
	// payments have started.
	PayeeContinueMin int

	// SweepInterval is the block cadence of the registry sweep.
	SweepInterval int

	// ScoreCacheDepth is how many blocks a cached score may lag the head
	// before it is recomputed.
	ScoreCacheDepth int
}

// DefaultParams returns the network's production parameters.
func DefaultParams() Params {
	return Params{
		RestartPeriod:       20,
		AnnouncePeriod:      5,
		MonitoringPeriod:    100,
		MonitoringPeriodMin: 30,
		PenaltySeconds:      500.0,
		MaxScore:            100.0,
		MinConfirmations:    10,
		MinCollateral:       10000 * COIN,
		MaxRoster:           300,
		VoteBudget:          30,
		ElectionPeriod:      200,
		PayeeStartMin:       150,
		PayeeContinueMin:    100,
		SweepInterval:       10,
		ScoreCacheDepth:     5,
	}
}

// BootstrapHeight is the height below which no challenge schedule is defined.
func (p Params) BootstrapHeight() int {
	return 4 * p.RestartPeriod
}

// ProofCap is the maximum number of proofs a node may accumulate in the
// monitoring window before being flagged as misbehaving.
func (p Params) ProofCap() int {
	return 10 * p.MonitoringPeriod / p.AnnouncePeriod
}

// MisbehavingScore is the sentinel score of a misbehaving node. It exceeds
// MaxScore by two orders of magnitude, so a misbehaving node always ranks
// below every candidate.
func (p Params) MisbehavingScore() float64 {
	return 99 * p.MaxScore
}
