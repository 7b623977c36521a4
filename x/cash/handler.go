package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, control Controller) {
	r.Handle((&SendMsg{}).Path(), NewSendHandler(auth, control))
	r.Handle((&UpdateConfigurationMsg{}).Path(), NewConfigHandler(auth))
}

// RegisterQuery will register the balances as "/wallets" and the asset
// definitions as "/assets"
func RegisterQuery(qr timelock.QueryRouter) {
	NewBalanceBucket().Register("wallets", qr)
	NewAssetBucket().Register("assets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ timelock.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and authorized
func (h SendHandler) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(ctx, store, msg.Source, msg.Destination, msg.Coin()); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx timelock.Context, tx timelock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}

// NewConfigHandler returns a handler of the configuration updates signed by
// the configuration owner.
func NewConfigHandler(auth x.Authenticator) timelock.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(ConfigurationPkg, &conf, auth)
}
