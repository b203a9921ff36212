package validation

import (
	"fmt"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateNewTask validates the inputs of an add operation. Content may
// not be blank and the due date must be present and readable.
func (tv *TaskValidator) ValidateNewTask(content, dueDate string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(content) {
		validationError.AddRequiredError("content")
	} else if !tv.validator.IsValidContentLength(content) {
		validationError.AddInvalidLengthError("content", content, 0, tv.validator.ContentMaxLength())
	}

	if dueDate == "" {
		validationError.AddRequiredError("dueDate")
	} else if !tv.validator.IsValidTimestamp(dueDate) {
		validationError.AddInvalidFormatError("dueDate", dueDate, "ISO 8601 date or date-time")
	}

	return validationError.ErrOrNil()
}

// ValidateTasks checks a replacement list: every task needs an id, content
// and due date, and ids must be unique.
func (tv *TaskValidator) ValidateTasks(tasks []domain.Task) error {
	validationError := NewValidationError()
	seen := make(map[string]int, len(tasks))

	for i, task := range tasks {
		prefix := fmt.Sprintf("[%d]", i)
		if task.ID == "" {
			validationError.AddRequiredError(prefix + ".id")
		}
		if task.Content == "" {
			validationError.AddRequiredError(prefix + ".content")
		}
		if task.DueDate == "" {
			validationError.AddRequiredError(prefix + ".dueDate")
		}

		if task.ID == "" {
			continue
		}
		if first, dup := seen[task.ID]; dup {
			validationError.AddDuplicateError(prefix+".id", task.ID, fmt.Sprintf("[%d].id", first))
			continue
		}
		seen[task.ID] = i
	}

	return validationError.ErrOrNil()
}
