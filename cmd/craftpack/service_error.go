// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/craftpack/craftpack/internal/config"
	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/pkg/types"
)

// ServiceError pairs a command failure with the catalog entry that
// explains it and the process exit code it maps to. Always create it with
// newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional catalog entry rendered in verbose mode.
	IssueID issue.Id
	// Code is the exit code reported to the shell.
	Code types.ExitCode

	verbose bool
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, code types.ExitCode) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID, Code: code}
}

// Error returns the display form of the underlying error: suggestions
// included, and the cause chain too in verbose mode.
func (e *ServiceError) Error() string { return formatErrorForDisplay(e.Err, e.verbose) }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps err onto a catalog entry and an exit code.
func classifyError(err error) *ServiceError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return newServiceError(err, ae.Issue, exitCodeFor(ae.Issue))
	}
	if errors.Is(err, fs.ErrPermission) {
		return newServiceError(err, issue.PermissionDeniedId, types.ExitFailure)
	}
	return newServiceError(err, 0, types.ExitFailure)
}

func exitCodeFor(id issue.Id) types.ExitCode {
	switch id {
	case issue.DefinitionNotFoundId, issue.DefinitionParseErrorId:
		return types.ExitDefinition
	case issue.ArchiveWriteFailedId, issue.ArchiveReadFailedId:
		return types.ExitArchive
	default:
		return types.ExitFailure
	}
}

// fail converts a handler error into an ExitError. The error text itself
// is printed by fang; in verbose mode the catalog entry is printed first.
func (app *App) fail(err error) error {
	if err == nil {
		return nil
	}

	svcErr := classifyError(err)
	svcErr.verbose = app.cfg.UI.Verbose
	if svcErr.verbose {
		app.renderIssueCard(svcErr.IssueID, issueCardStyle(app.cfg.UI.ColorScheme, app.Terminal(app.stderr)))
	}
	return &ExitError{Code: svcErr.Code, Err: svcErr}
}

// issueCardStyle picks the glamour style for catalog entries. Non-terminal
// output is always plain.
func issueCardStyle(scheme config.ColorScheme, terminal bool) string {
	if !terminal {
		return "notty"
	}
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// renderIssueCard prints the glamour-rendered catalog entry for id.
func (app *App) renderIssueCard(id issue.Id, style string) {
	catalogEntry := issue.Get(id)
	if catalogEntry == nil {
		return
	}
	rendered, err := app.renderCard(catalogEntry, style)
	if err != nil {
		app.logger.Warn("failed to render issue catalog entry", "issueID", id, "style", style, "error", err)
		return
	}
	fmt.Fprint(app.stderr, rendered)
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
