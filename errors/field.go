package errors

import (
	"fmt"
)

// Field wraps err with the name of the field it describes. Nil is returned
// for a nil err. Use Go names, and dots for nested fields, for example
// "Amount" or "Amount.Ticker".
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{
		parent: withStack(err),
		field:  fieldName,
		desc:   description,
	}
}

// AppendField adds a field error to a possibly nil group of errors. A nil
// fieldErrOrNil leaves errorsOrNil unchanged.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors returns all errors within err that were created for given
// field name.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	var res []error
	walk(err, func(cur error) bool {
		if f, ok := cur.(fielder); ok && f.Field() == fieldName {
			res = append(res, cur)
		}
		return false
	})
	return res
}

type fielder interface {
	Field() string
}
