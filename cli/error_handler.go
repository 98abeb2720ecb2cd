package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/meetwatch/errors"
	"github.com/spf13/cobra"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	out     io.Writer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		out:     os.Stderr,
	}
}

// WithWriter redirects the messages.
func (h *ErrorHandler) WithWriter(w io.Writer) *ErrorHandler {
	h.out = w
	return h
}

// Handle prints a hint for known error codes and returns err unchanged.
func (h *ErrorHandler) Handle(cmd *cobra.Command, err error) error {
	PrintError(cmd, h.out, err)

	e, ok := errors.As(err)
	if !ok {
		return err
	}

	switch e.Code {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.out, "Create meetwatch.yml in this directory or pass --config.\n")
	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.out, "Run 'meetwatch config schema' to see the accepted fields.\n")
	case errors.ErrCodeTransportConnect:
		fmt.Fprintf(h.out, "Check that %v is reachable and the tls/websocket settings match the server.\n", e.Details["address"])
	case errors.ErrCodeTransportClosed:
		fmt.Fprintf(h.out, "The connection ended; run the command again to reconnect.\n")
	case errors.ErrCodeSourceNotFound:
		fmt.Fprintf(h.out, "Check the transcript path %v.\n", e.Details["path"])
	case errors.ErrCodeCredentialsMissing:
		fmt.Fprintf(h.out, "Export %v or pass --ask-password.\n", e.Details["env"])
	}

	if h.Verbose {
		fmt.Fprintf(h.out, "\nError details:\n%s\n", e.ToJSON())
	}
	return err
}
