package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CommitStore keeps three views of the ledger state: the last committed
// version, the block being delivered and the mempool used by CheckTx. Only
// the delivered block reaches the disk.
type CommitStore struct {
	committed timelock.CommitKVStore
	deliver   timelock.KVCacheWrap
	check     timelock.KVCacheWrap
}

// NewCommitStore loads the latest version of given store. It panics if the
// store cannot be loaded.
func NewCommitStore(committed timelock.CommitKVStore) *CommitStore {
	if err := committed.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest version"))
	}
	cs := &CommitStore{committed: committed}
	cs.reset()
	return cs
}

// reset starts both views over from the committed version.
func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

func (cs *CommitStore) CommitInfo() (timelock.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the delivered block as a new version. Mempool changes
// are dropped.
func (cs *CommitStore) Commit() (timelock.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return timelock.CommitID{}, errors.Wrap(err, "write block")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit version")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() timelock.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() timelock.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is outside of any bucket or configuration prefix.
const chainIDKey = "_tl:chainID"

// loadChainID returns the chain ID written at genesis, or an empty string
// before InitChain.
func loadChainID(kv timelock.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID writes the chain ID once. A chain cannot be renamed.
func saveChainID(kv timelock.KVStore, chainID string) error {
	if !timelock.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	switch stored, err := loadChainID(kv); {
	case err != nil:
		return err
	case stored != "":
		return errors.Wrapf(errors.ErrImmutable, "chain id %q is set at genesis", stored)
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
