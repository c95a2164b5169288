// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "archive failure", value: ExitArchive, wantValid: true},
		{name: "upper bound", value: 255, wantValid: true},
		{name: "negative", value: -1, wantValid: false},
		{name: "above range", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("ExitCode(%d).Validate() = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidExitCode) {
					t.Errorf("error should wrap ErrInvalidExitCode: %v", err)
				}
				var codeErr *InvalidExitCodeError
				if !errors.As(err, &codeErr) || codeErr.Value != tt.value {
					t.Errorf("error = %#v", err)
				}
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() {
		t.Error("ExitSuccess.IsSuccess() = false")
	}
	if ExitDefinition.IsSuccess() {
		t.Error("ExitDefinition.IsSuccess() = true")
	}
	if ExitUsage.String() != "2" {
		t.Errorf("ExitUsage.String() = %q", ExitUsage.String())
	}
}
