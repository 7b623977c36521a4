package timelocktest

import (
	"context"
	"fmt"

	"github.com/iov-one/timelock"
)

// Auth authenticates a fixed set of conditions, regardless of the request.
// Signer, when set, is reported first and becomes the main signer, the
// owner of deposits and withdrawals.
type Auth struct {
	Signer  timelock.Condition
	Signers []timelock.Condition
}

func (a *Auth) GetConditions(timelock.Context) []timelock.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]timelock.Condition, 0, len(a.Signers)+1)
	return append(append(conds, a.Signer), a.Signers...)
}

func (a *Auth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the request context with
// SetConditions. Instances with different keys do not see each other's
// conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx timelock.Context, conds ...timelock.Condition) timelock.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	switch val := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []timelock.Condition:
		return val
	default:
		panic(fmt.Sprintf("auth %q holds %T", a.Key, val))
	}
}

func (a *CtxAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []timelock.Condition, addr timelock.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
