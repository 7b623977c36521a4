package app

import (
	"fmt"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Router dispatches a transaction to the handler registered under the path
// of its message.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]timelock.Handler
}

var _ timelock.Registry = (*Router)(nil)
var _ timelock.Handler = (*Router)(nil)

// NewRouter returns a router with no routes.
func NewRouter() *Router {
	return &Router{routes: make(map[string]timelock.Handler, 10)}
}

// Handle registers a handler for given message path. It panics if the path
// is invalid or another handler was already registered for it.
func (r *Router) Handle(path string, h timelock.Handler) {
	if !isMsgPath(path) {
		panic(fmt.Sprintf("invalid message path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for given path or a handler that
// always fails with errors.ErrNotFound.
func (r *Router) Handler(path string) timelock.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the handler of the transaction message.
func (r *Router) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, db, tx)
}

// Deliver dispatches to the handler of the transaction message.
func (r *Router) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, db, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
