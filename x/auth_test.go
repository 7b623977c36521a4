package x

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

func TestMainSigner(t *testing.T) {
	alice := timelocktest.NewCondition()
	bob := timelocktest.NewCondition()
	carol := timelocktest.NewCondition()

	deposits := &timelocktest.CtxAuth{Key: "deposits"}
	withdrawals := &timelocktest.CtxAuth{Key: "withdrawals"}
	signed := deposits.SetConditions(context.Background(), bob, alice)

	cases := map[string]struct {
		ctx        timelock.Context
		auth       Authenticator
		wantOwner  timelock.Condition
		wantConds  []timelock.Condition
		wantSigned []timelock.Condition
		wantNot    []timelock.Condition
	}{
		"nobody signed": {
			ctx:     context.Background(),
			auth:    ChainAuth(),
			wantNot: []timelock.Condition{alice},
		},
		"single signature": {
			ctx:        context.Background(),
			auth:       &timelocktest.Auth{Signer: alice},
			wantOwner:  alice,
			wantConds:  []timelock.Condition{alice},
			wantSigned: []timelock.Condition{alice},
			wantNot:    []timelock.Condition{bob},
		},
		"first authenticator owns the request": {
			ctx: signed,
			auth: ChainAuth(
				&timelocktest.Auth{Signer: carol},
				deposits,
			),
			wantOwner:  carol,
			wantConds:  []timelock.Condition{carol, bob, alice},
			wantSigned: []timelock.Condition{alice, bob, carol},
		},
		"context signatures keep their order": {
			ctx:        signed,
			auth:       ChainAuth(withdrawals, deposits),
			wantOwner:  bob,
			wantConds:  []timelock.Condition{bob, alice},
			wantSigned: []timelock.Condition{alice, bob},
			wantNot:    []timelock.Condition{carol},
		},
		"signatures under another key are ignored": {
			ctx:     signed,
			auth:    withdrawals,
			wantNot: []timelock.Condition{alice, bob},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantOwner, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.wantConds, tc.auth.GetConditions(tc.ctx))
			for _, c := range tc.wantSigned {
				if !tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Errorf("want %s to be signed", c)
				}
			}
			for _, c := range tc.wantNot {
				if tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Errorf("want %s not to be signed", c)
				}
			}
		})
	}
}
