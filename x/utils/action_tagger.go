package utils

import (
	"strings"

	"github.com/iov-one/timelock"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags a delivered transaction with the path of its message,
	// for example "ledger/withdraw".
	ActionKey = "action"
	// ModuleKey tags a delivered transaction with the extension that
	// handled it, for example "ledger".
	ModuleKey = "module"
)

// ActionTagger tags every successful delivery with the message path and the
// handling extension. Together with the owner tags of the ledger they let
// clients find all deposits and withdrawals of an account.
type ActionTagger struct{}

var _ timelock.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before calling the handler if the message cannot be read.
// Failed deliveries are not tagged.
func (ActionTagger) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(path)})
	if i := strings.IndexByte(path, '/'); i > 0 {
		res.Tags = append(res.Tags, common.KVPair{Key: []byte(ModuleKey), Value: []byte(path[:i])})
	}
	return res, nil
}
