package chain

import (
	"strconv"
	"sync"

	cm "github.com/vigilnetworks/vigil/src/common"
)

// InmemIndex is an in-memory block index.
type InmemIndex struct {
	sync.RWMutex
	blocks map[int]*Block
	head   int
}

// NewInmemIndex ...
func NewInmemIndex() *InmemIndex {
	return &InmemIndex{
		blocks: make(map[int]*Block),
		head:   -1,
	}
}

// Head implements Index.
func (i *InmemIndex) Head() int {
	i.RLock()
	defer i.RUnlock()
	return i.head
}

// Block implements Index.
func (i *InmemIndex) Block(height int) (*Block, error) {
	i.RLock()
	defer i.RUnlock()
	b, ok := i.blocks[height]
	if !ok {
		return nil, cm.NewStoreErr("Block", cm.KeyNotFound, strconv.Itoa(height))
	}
	return b, nil
}

// SetBlock implements Index.
func (i *InmemIndex) SetBlock(block *Block) error {
	i.Lock()
	defer i.Unlock()
	i.blocks[block.Height] = block
	if block.Height > i.head {
		i.head = block.Height
	}
	return nil
}

// SetHead implements Index.
func (i *InmemIndex) SetHead(height int) error {
	i.Lock()
	defer i.Unlock()
	i.head = height
	return nil
}

// Close implements Index.
func (i *InmemIndex) Close() error {
	return nil
}
