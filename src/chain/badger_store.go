package chain

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dgraph-io/badger"
)

const headKey = "head"

func blockKey(height int) []byte {
	return []byte(fmt.Sprintf("block_%09d", height))
}

// BadgerIndex is a write-through persistent block index: reads are served
// from an underlying InmemIndex while every update is also committed to a
// Badger database, so the index survives restarts.
type BadgerIndex struct {
	inmemIndex *InmemIndex
	db         *badger.DB
	path       string
}

// NewBadgerIndex creates a brand new index with a new database.
func NewBadgerIndex(path string) (*BadgerIndex, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerIndex{
		inmemIndex: NewInmemIndex(),
		db:         handle,
		path:       path,
	}, nil
}

// LoadBadgerIndex creates an index from an existing database.
func LoadBadgerIndex(path string) (*BadgerIndex, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	index := &BadgerIndex{
		inmemIndex: NewInmemIndex(),
		db:         handle,
		path:       path,
	}

	if err := index.dbLoad(); err != nil {
		handle.Close()
		return nil, err
	}

	return index, nil
}

// Head implements Index.
func (i *BadgerIndex) Head() int {
	return i.inmemIndex.Head()
}

// Block implements Index.
func (i *BadgerIndex) Block(height int) (*Block, error) {
	return i.inmemIndex.Block(height)
}

// SetBlock implements Index.
func (i *BadgerIndex) SetBlock(block *Block) error {
	if err := i.inmemIndex.SetBlock(block); err != nil {
		return err
	}
	if err := i.dbSetBlock(block); err != nil {
		return err
	}
	return i.dbSetHead(i.inmemIndex.Head())
}

// SetHead implements Index.
func (i *BadgerIndex) SetHead(height int) error {
	if err := i.inmemIndex.SetHead(height); err != nil {
		return err
	}
	return i.dbSetHead(height)
}

// Close implements Index.
func (i *BadgerIndex) Close() error {
	return i.db.Close()
}

func (i *BadgerIndex) dbSetBlock(block *Block) error {
	tx := i.db.NewTransaction(true)
	defer tx.Discard()

	val, err := block.Marshal()
	if err != nil {
		return err
	}

	//insert [height] => [block bytes]
	if err := tx.Set(blockKey(block.Height), val); err != nil {
		return err
	}

	return tx.Commit()
}

func (i *BadgerIndex) dbSetHead(height int) error {
	tx := i.db.NewTransaction(true)
	defer tx.Discard()

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(height)))

	if err := tx.Set([]byte(headKey), buf); err != nil {
		return err
	}

	return tx.Commit()
}

func (i *BadgerIndex) dbLoad() error {
	head := -1

	err := i.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(headKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			head = int(int64(binary.BigEndian.Uint64(val)))
			return nil
		})
	})
	if err != nil {
		return err
	}

	err = i.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("block_")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var blockBytes []byte
			if err := it.Item().Value(func(val []byte) error {
				blockBytes = append([]byte{}, val...)
				return nil
			}); err != nil {
				return err
			}
			block := new(Block)
			if err := block.Unmarshal(blockBytes); err != nil {
				return err
			}
			if err := i.inmemIndex.SetBlock(block); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return i.inmemIndex.SetHead(head)
}
