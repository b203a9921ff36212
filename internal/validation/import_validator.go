package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"task-tracker/internal/domain"
)

//go:embed import.schema.json
var importSchemaSource string

var importSchema = jsonschema.MustCompileString("tasks.schema.json", importSchemaSource)

// ImportValidator checks exported task lists before they replace the
// current list.
type ImportValidator struct {
	tasks *TaskValidator
}

// NewImportValidator creates an import validator
func NewImportValidator() *ImportValidator {
	return &ImportValidator{tasks: NewTaskValidator()}
}

// ParseImport decodes and validates payload. The list is returned only when
// every element passes; otherwise the error lists every problem found.
func (iv *ImportValidator) ParseImport(payload []byte) ([]domain.Task, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		validationError := NewValidationError()
		validationError.AddRequiredError("payload")
		return nil, validationError
	}

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("payload", nil, "JSON array of tasks")
		return nil, validationError
	}

	if err := importSchema.Validate(doc); err != nil {
		return nil, schemaErrorToValidationError(err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("payload", nil, "JSON array of tasks")
		return nil, validationError
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	if err := iv.tasks.ValidateTasks(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// schemaErrorToValidationError flattens the schema error tree into one
// field error per leaf.
func schemaErrorToValidationError(err error) *ValidationError {
	validationError := NewValidationError()

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		validationError.AddError("payload", ErrorTypeInvalidValue, err.Error(), nil)
		return validationError
	}

	collectSchemaErrors(ve, validationError)
	if !validationError.HasErrors() {
		validationError.AddError("payload", ErrorTypeInvalidValue, ve.Message, nil)
	}
	return validationError
}

func collectSchemaErrors(err *jsonschema.ValidationError, into *ValidationError) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectSchemaErrors(cause, into)
		}
		return
	}

	field := jsonPointerToPath(err.InstanceLocation)

	switch {
	case strings.HasPrefix(err.Message, "missing properties:"):
		for _, name := range missingProperties(err.Message) {
			into.AddRequiredError(joinPath(field, name))
		}
		return
	case strings.HasPrefix(err.Message, "length must be"):
		into.AddError(field, ErrorTypeRequired, fmt.Sprintf("%s must not be empty", field), nil)
		return
	}

	errorType := ErrorTypeInvalidValue
	if strings.HasPrefix(err.Message, "expected ") {
		errorType = ErrorTypeInvalidType
	}
	if field == "" {
		field = "payload"
	}
	into.AddError(field, errorType, fmt.Sprintf("%s: %s", field, err.Message), nil)
}

// missingProperties extracts the names from `missing properties: 'a', 'b'`.
func missingProperties(message string) []string {
	var names []string
	for _, name := range strings.Split(strings.TrimPrefix(message, "missing properties:"), ",") {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// jsonPointerToPath converts "/0/dueDate" into "[0].dueDate".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
