// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the craftpack CLI layers.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means the command completed.
	ExitSuccess ExitCode = 0
	// ExitFailure is the catch-all failure code.
	ExitFailure ExitCode = 1
	// ExitUsage means the command line was invalid.
	ExitUsage ExitCode = 2
	// ExitDefinition means the definition file was missing or invalid.
	ExitDefinition ExitCode = 3
	// ExitArchive means the archive could not be written or read.
	ExitArchive ExitCode = 4
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code in the POSIX range
	// 0-255. The zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates success.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
