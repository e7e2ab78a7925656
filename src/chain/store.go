package chain

// Index is the block-index collaborator: the single chain of connected
// blocks, by height. The host appends blocks as they are connected and lowers
// the head on disconnect; the governance core annotates the records with
// receive times, flips and payees.
type Index interface {
	// Head returns the current chain height, or -1 when the index is empty.
	Head() int
	// Block returns the record at a height.
	Block(height int) (*Block, error)
	// SetBlock inserts or updates a block record, raising the head if needed.
	SetBlock(block *Block) error
	// SetHead lowers the head after a disconnect. Records above the head are
	// kept and overwritten by the replacing branch.
	SetHead(height int) error
	// Close closes the underlying database.
	Close() error
}
