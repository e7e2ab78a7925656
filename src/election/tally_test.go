package election

import (
	"fmt"
	"testing"

	"github.com/vigilnetworks/vigil/src/chain"
	"github.com/vigilnetworks/vigil/src/masternode"
)

func tallyParams() masternode.Params {
	p := masternode.DefaultParams()
	p.ElectionPeriod = 4
	p.PayeeStartMin = 2
	p.PayeeContinueMin = 1
	return p
}

// voteOn rewrites the ballots recorded on an already-indexed block.
func (e *env) voteOn(t *testing.T, height int, add, remove []chain.Outpoint) {
	t.Helper()

	block, err := e.index.Block(height)
	if err != nil {
		t.Fatal(err)
	}
	block.AddVotes = add
	block.RemoveVotes = remove
	if err := e.index.SetBlock(block); err != nil {
		t.Fatal(err)
	}
}

// connect builds the next block and runs it through the tally.
func (e *env) connect(t *testing.T, height int) *chain.Block {
	t.Helper()

	block := &chain.Block{
		Height:      height,
		Hash:        fmt.Sprintf("hash%06d", height),
		ReceiveTime: int64(1000 * (height + 1)),
	}
	if err := e.tally.Connect(block); err != nil {
		t.Fatal(err)
	}
	return block
}

func TestTallyConnectElectsOnSupermajority(t *testing.T) {
	e := newEnv(t, 9, tallyParams())

	a, _ := e.addCollateral(t, "aa")
	b := chain.Outpoint{TxID: "bb", N: 0}

	// Window for height 10 is blocks 6..9; threshold is 2, so 3 votes bind.
	e.voteOn(t, 6, []chain.Outpoint{a, b}, nil)
	e.voteOn(t, 7, []chain.Outpoint{a}, nil)
	e.voteOn(t, 8, []chain.Outpoint{a}, nil)

	block := e.connect(t, 10)

	if !e.registry.IsElected(a) {
		t.Fatal("supermajority candidate should be elected")
	}
	if e.registry.IsElected(b) {
		t.Fatal("minority candidate should not be elected")
	}
	if len(block.Flips) != 1 || block.Flips[0].Outpoint != a || !block.Flips[0].Elected {
		t.Fatalf("expected a single elect flip for %v, got %v", a, block.Flips)
	}

	stored, err := e.index.Block(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Flips) != 1 {
		t.Fatalf("flips not persisted: %v", stored.Flips)
	}

	// One elected node is below PayeeStartMin; payments have not begun.
	if block.Payee != nil {
		t.Fatalf("no payee expected, got %v", block.Payee)
	}
}

func TestTallyConnectSkipsSatisfiedDecision(t *testing.T) {
	e := newEnv(t, 9, tallyParams())

	a, _ := e.addCollateral(t, "aa")
	e.registry.GetOrRegister(a)
	e.registry.Elect(a)

	e.voteOn(t, 6, []chain.Outpoint{a}, nil)
	e.voteOn(t, 7, []chain.Outpoint{a}, nil)
	e.voteOn(t, 8, []chain.Outpoint{a}, nil)

	block := e.connect(t, 10)

	if len(block.Flips) != 0 {
		t.Fatalf("already-elected node should not flip, got %v", block.Flips)
	}
	if !e.registry.IsElected(a) {
		t.Fatal("node should stay elected")
	}
}

func TestTallyConnectUnelectsOnSupermajority(t *testing.T) {
	e := newEnv(t, 9, tallyParams())

	a, _ := e.addCollateral(t, "aa")
	e.registry.GetOrRegister(a)
	e.registry.Elect(a)

	e.voteOn(t, 6, nil, []chain.Outpoint{a})
	e.voteOn(t, 7, nil, []chain.Outpoint{a})
	e.voteOn(t, 8, nil, []chain.Outpoint{a})

	block := e.connect(t, 10)

	if e.registry.IsElected(a) {
		t.Fatal("supermajority remove should unelect")
	}
	if len(block.Flips) != 1 || block.Flips[0].Outpoint != a || block.Flips[0].Elected {
		t.Fatalf("expected a single unelect flip for %v, got %v", a, block.Flips)
	}
}

func TestTallyDisconnectReversesFlips(t *testing.T) {
	e := newEnv(t, 9, tallyParams())

	a, _ := e.addCollateral(t, "aa")

	e.voteOn(t, 6, []chain.Outpoint{a}, nil)
	e.voteOn(t, 7, []chain.Outpoint{a}, nil)
	e.voteOn(t, 8, []chain.Outpoint{a}, nil)

	block := e.connect(t, 10)
	if !e.registry.IsElected(a) {
		t.Fatal("setup: candidate should be elected")
	}

	if err := e.tally.Disconnect(block); err != nil {
		t.Fatal(err)
	}

	if e.registry.IsElected(a) {
		t.Fatal("disconnect should reverse the elect flip")
	}
	if head := e.index.Head(); head != 9 {
		t.Fatalf("head should rewind to 9, got %d", head)
	}
}

func TestTallyDisconnectIrreversibleFlipPanics(t *testing.T) {
	e := newEnv(t, 9, tallyParams())

	a, _ := e.addCollateral(t, "aa")

	block := &chain.Block{
		Height: 10,
		Hash:   "hash000010",
		Flips:  []chain.Flip{{Outpoint: a, Elected: true}},
	}

	defer func() {
		if recover() == nil {
			t.Fatal("reversing a flip that was never applied should panic")
		}
	}()
	e.tally.Disconnect(block)
}

func TestTallyPayeeRotation(t *testing.T) {
	p := tallyParams()
	p.PayeeStartMin = 1
	e := newEnv(t, 9, p)

	a, _ := e.addCollateral(t, "aa")
	b, _ := e.addCollateral(t, "bb")
	for _, op := range []chain.Outpoint{a, b} {
		if e.registry.GetOrRegister(op) == nil {
			t.Fatalf("setup: %v did not register", op)
		}
		e.registry.Elect(op)
	}

	// No ballots anywhere; the tally only rotates the payee.
	first := e.connect(t, 10)
	if first.Payee == nil || first.Payee.Outpoint != a {
		t.Fatalf("first payee should be %v, got %v", a, first.Payee)
	}
	if first.Payee.Owner == "" {
		t.Fatal("payee owner should be recorded for a registered node")
	}

	second := e.connect(t, 11)
	if second.Payee == nil || second.Payee.Outpoint != b {
		t.Fatalf("second payee should be %v, got %v", b, second.Payee)
	}

	wrapped := e.connect(t, 12)
	if wrapped.Payee == nil || wrapped.Payee.Outpoint != a {
		t.Fatalf("rotation should wrap back to %v, got %v", a, wrapped.Payee)
	}
}

func TestTallyPayeeHaltsBelowContinueMin(t *testing.T) {
	p := tallyParams()
	p.PayeeStartMin = 2
	p.PayeeContinueMin = 2
	e := newEnv(t, 9, p)

	a, _ := e.addCollateral(t, "aa")
	b, _ := e.addCollateral(t, "bb")
	e.registry.Elect(a)
	e.registry.Elect(b)

	started := e.connect(t, 10)
	if started.Payee == nil || started.Payee.Outpoint != a {
		t.Fatalf("payments should start at %v, got %v", a, started.Payee)
	}

	e.registry.Unelect(b)

	halted := e.connect(t, 11)
	if halted.Payee != nil {
		t.Fatalf("roster below continue minimum should halt payments, got %v", halted.Payee)
	}
}
