package errors

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ErrorHandler turns errors returned by commands into a user-facing line and
// a process exit code, logging the full detail
type ErrorHandler struct {
	logger *zap.Logger
	out    io.Writer
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, out io.Writer, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		out:    out,
		debug:  debug,
	}
}

// Handle reports err and returns the exit code the process should use
func (h *ErrorHandler) Handle(command string, err error) int {
	if err == nil {
		return ExitOK
	}

	if appErr := GetAppError(err); appErr != nil {
		h.logError(command, appErr)

		message := appErr.Message
		if h.debug && appErr.Cause != nil {
			message = fmt.Sprintf("%s (%v)", message, appErr.Cause)
		}
		fmt.Fprintf(h.out, "%s: %s\n", command, message)

		if h.debug && appErr.StackTrace != "" {
			fmt.Fprint(h.out, appErr.StackTrace)
		}

		if appErr.ExitCode == 0 {
			return ExitFailure
		}
		return appErr.ExitCode
	}

	h.logger.Error("Unhandled error",
		zap.String("command", command),
		zap.Error(err),
	)

	message := "an internal error occurred"
	if h.debug {
		message = err.Error()
	}
	fmt.Fprintf(h.out, "%s: %s\n", command, message)
	return ExitFailure
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(command string, err *AppError) {
	fields := []zap.Field{
		zap.String("command", command),
		zap.String("errorType", string(err.Type)),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("errorCode", err.Code))
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Error(err.Message, fields...)
	}
}
