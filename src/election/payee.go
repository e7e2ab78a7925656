package election

import (
	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/masternode"
)

// NextPayee deterministically selects the next payee from the elected roster,
// which must be sorted in the outpoint total order.
//
// With no previous payee, payments have not started: the roster must reach
// PayeeStartMin before the first (smallest) outpoint is paid. Afterwards the
// rotation continues as long as the roster holds PayeeContinueMin entries,
// picking the smallest outpoint strictly greater than the previous payee and
// wrapping around at the end. The previous payee need not still be in the
// roster.
func NextPayee(elected []chain.Outpoint, prev *chain.Outpoint, params masternode.Params) (chain.Outpoint, bool) {
	if prev == nil {
		if len(elected) < params.PayeeStartMin {
			return chain.Outpoint{}, false
		}
		return elected[0], true
	}

	if len(elected) < params.PayeeContinueMin || len(elected) == 0 {
		return chain.Outpoint{}, false
	}

	for _, op := range elected {
		if prev.Less(op) {
			return op, true
		}
	}

	// prev was the maximum, or is no longer present: wrap.
	return elected[0], true
}
