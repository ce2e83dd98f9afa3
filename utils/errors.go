package utils

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// NewConfigValidationFieldRequiredError is used when a required config field is unset.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return goutils.NewConfigValidationFieldRequiredError(path, field)
}

// NewConfigValidationOutOfRangeError is used when a config field holds a value outside of its allowed range.
func NewConfigValidationOutOfRangeError(path, field string, value, lowest interface{}) error {
	return goutils.NewConfigValidationError(path, errors.Errorf("%q must be at least %v, got %v", field, lowest, value))
}
