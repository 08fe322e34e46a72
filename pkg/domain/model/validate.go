package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/types"
)

// ErrValidation is matched by every form validation failure
var ErrValidation = goerr.New("validation failed")

// FieldErrors maps a form field (json name) to its message
type FieldErrors map[string]string

// ValidationError carries per-field messages of a rejected form
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldErrorsOf extracts field messages from err, or nil
func FieldErrorsOf(err error) FieldErrors {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enums := map[string]func(string) bool{
		"role":              func(s string) bool { return types.Role(s).IsValid() },
		"initiative_status": func(s string) bool { return types.InitiativeStatus(s).IsValid() },
		"task_status":       func(s string) bool { return types.TaskStatus(s).IsValid() },
		"priority":          func(s string) bool { return types.Priority(s).IsValid() },
		"rag_status":        func(s string) bool { return types.RAGStatus(s).IsValid() },
	}
	for tag, fn := range enums {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
		}
	}

	return v
}

// Validate checks a form input against its struct tags
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return goerr.Wrap(err, "failed to validate input")
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	case "role", "initiative_status", "task_status", "priority", "rag_status":
		return fmt.Sprintf("invalid value %q", fe.Value())
	default:
		return "failed on " + fe.Tag()
	}
}

// InitiativeInput is the initiative create/edit form
type InitiativeInput struct {
	Name          string                 `json:"name" validate:"required,max=200"`
	Category      string                 `json:"category" validate:"required,max=100"`
	Description   string                 `json:"description" validate:"max=5000"`
	Objectives    string                 `json:"objectives" validate:"max=5000"`
	LeadIDs       []UserID               `json:"leadIds" validate:"min=1,dive,required"`
	TeamMemberIDs []UserID               `json:"teamMemberIds" validate:"dive,required"`
	Status        types.InitiativeStatus `json:"status" validate:"omitempty,initiative_status"`
	Priority      types.Priority         `json:"priority" validate:"omitempty,priority"`
	StartDate     time.Time              `json:"startDate" validate:"required"`
	EndDate       time.Time              `json:"endDate" validate:"required,gtefield=StartDate"`
	Tags          []string               `json:"tags" validate:"dive,required,max=50"`
	RAGStatus     types.RAGStatus        `json:"ragStatus" validate:"omitempty,rag_status"`
	Progress      int                    `json:"progress" validate:"min=0,max=100"`
}

// TaskInput is the task create/edit form
type TaskInput struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	OwnerID     UserID           `json:"ownerId" validate:"required"`
	Status      types.TaskStatus `json:"status" validate:"omitempty,task_status"`
	StartDate   time.Time        `json:"startDate" validate:"required"`
	DueDate     time.Time        `json:"dueDate" validate:"required,gtefield=StartDate"`
	Progress    int              `json:"progress" validate:"min=0,max=100"`
}

// UserInput is the admin user edit form. Empty fields are left unchanged.
type UserInput struct {
	Name        string     `json:"name" validate:"max=200"`
	Role        types.Role `json:"role" validate:"omitempty,role"`
	Department  string     `json:"department" validate:"max=100"`
	Designation string     `json:"designation" validate:"max=100"`
	PhotoURL    string     `json:"photoUrl" validate:"omitempty,url"`
}

// ProfileInput is the sign-up profile form
type ProfileInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// MasterInput is the department/designation form
type MasterInput struct {
	Name string `json:"name" validate:"required,max=100"`
}
