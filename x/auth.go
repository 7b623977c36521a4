package x

import (
	"github.com/iov-one/timelock"
)

// Authenticator reveals who authorized the current request. Handlers get
// one injected so that the signature scheme can be replaced without
// touching them.
type Authenticator interface {
	// GetConditions returns all conditions satisfied by the request.
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress returns true if any satisfied condition owns the address.
	HasAddress(timelock.Context, timelock.Address) bool
}

// MultiAuth merges the results of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator that is satisfied by any of given
// ones. Conditions are reported in the order of the authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	var res []timelock.Condition
	for _, a := range m {
		res = append(res, a.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition satisfied by the request, or nil.
// Deposits and withdrawals are always made on behalf of the main signer.
func MainSigner(ctx timelock.Context, auth Authenticator) timelock.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
