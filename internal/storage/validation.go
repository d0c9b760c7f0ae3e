package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkade/saffron/internal/common"
)

// Validation errors.
var (
	errNilContext   = errors.New("context cannot be nil")
	errEmptyString  = errors.New("string parameter cannot be empty")
	errNilParameter = errors.New("parameter cannot be nil")
	errInvalidName  = common.ErrInvalidProfileName
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return errNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", errEmptyString, paramName)
	}
	return nil
}

// validateProfileName ensures a profile name is a safe directory name.
func validateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", errInvalidName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return nil
}
