package orm

import (
	"github.com/iov-one/timelock"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	timelock.Persistent
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}
