package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"task-tracker/internal/errors"
	"task-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// WithLogger makes Handle log errors worth a log line.
func (eh *ErrorHandler) WithLogger(logger *log.Logger) *ErrorHandler {
	eh.logger = logger
	return eh
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	eh.log(operation, err)
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s", eh.message(err))
}

func (eh *ErrorHandler) message(err error) string {
	if validationErr, ok := validation.AsValidationError(err); ok {
		return validationErr.GetUserFriendlyMessage()
	}
	message := errors.GetUserMessage(err)
	if appErr, ok := errors.AsAppError(err); ok {
		if matches, ok := appErr.GetContext("matches"); ok {
			if ids, ok := matches.([]string); ok && len(ids) > 0 {
				message += " (" + strings.Join(ids, ", ") + ")"
			}
		}
	}
	return message
}

func (eh *ErrorHandler) log(operation string, err error) {
	if eh.logger == nil || !errors.ShouldLogError(err) {
		return
	}
	eh.logger.Error("command failed", "operation", operation, "code", errors.GetErrorCode(err), "err", err)
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
