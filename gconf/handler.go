package gconf

import (
	"reflect"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// OwnedConfig is a configuration with an owner. Only the owner may update
// it.
type OwnedConfig interface {
	Configuration
	GetOwner() timelock.Address
}

// UpdateConfigurationHandler applies a configuration patch. The message must
// be a pointer to a struct with a Patch field of the configuration type.
// Zero value fields of the patch leave the current values unchanged.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ timelock.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler updating the configuration
// of the package. config is used to load the current state and must be of
// the same type as the patch.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, config: config, auth: auth}
}

func (h UpdateConfigurationHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &timelock.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) error {
	if err := Load(db, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	switch owner := h.config.GetOwner(); {
	case owner == nil:
		return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	case !h.auth.HasAddress(ctx, owner):
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	patch, err := patchOf(msg)
	if err != nil {
		return err
	}
	if err := apply(h.config, patch); err != nil {
		return err
	}
	return errors.Wrap(Save(db, h.pkg, h.config), "cannot save updated config")
}

// patchOf returns the content of the Patch field of the message.
func patchOf(msg timelock.Msg) (OwnedConfig, error) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := v.Elem().FieldByName("Patch")
	switch {
	case !field.IsValid() || field.Kind() != reflect.Ptr:
		return nil, errors.Wrapf(errors.ErrInput, `"Patch" field missing in %T`, msg)
	case field.IsNil():
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	patch, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, `"Patch" field of %T is not a configuration`, msg)
	}
	return patch, nil
}

// apply copies all non zero fields of the patch into the configuration.
func apply(config, patch OwnedConfig) error {
	if reflect.TypeOf(config) != reflect.TypeOf(patch) {
		return errors.Wrapf(errors.ErrMsg, "patch %T does not match configuration %T", patch, config)
	}
	dst := reflect.ValueOf(config).Elem()
	src := reflect.ValueOf(patch).Elem()
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		zero := reflect.Zero(f.Type()).Interface()
		if reflect.DeepEqual(f.Interface(), zero) {
			continue
		}
		dst.Field(i).Set(f)
	}
	return nil
}
