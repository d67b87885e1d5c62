// Package models defines the core data structures for CyberCore.
//
// It includes the contact form submission, per-field validation results and the
// user-visible outcomes of a submission, which are shared across modules.
package models

import "errors"

// Field identifies one input of the contact form.
type Field string

const (
	// FieldName is the sender's name.
	FieldName Field = "name"
	// FieldPhone is the sender's phone number.
	FieldPhone Field = "phone"
	// FieldMessage is the free-text message body. It is never validated.
	FieldMessage Field = "message"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldPhone, FieldMessage}

// IsValidField checks if the given field belongs to the contact form.
func IsValidField(f Field) bool {
	switch f {
	case FieldName, FieldPhone, FieldMessage:
		return true
	default:
		return false
	}
}

// Validation constants for contact form input
const (
	// MinNameLength is the minimum number of characters in a trimmed name
	MinNameLength = 2
	// MinPhoneDigits is the minimum number of digits in a phone number
	MinPhoneDigits = 10
	// MaxPhoneDigits is the maximum number of digits in a phone number
	MaxPhoneDigits = 15
)

// Error variables for validation failures. The error text is what the form shows.
var (
	ErrNameRequired     = errors.New("Name is required")
	ErrNameTooShort     = errors.New("Name must be at least 2 characters")
	ErrNameInvalidChars = errors.New("Name should only contain letters and spaces")
	ErrPhoneRequired    = errors.New("Phone number is required")
	ErrPhoneTooShort    = errors.New("Phone number must be at least 10 digits")
	ErrPhoneTooLong     = errors.New("Phone number cannot exceed 15 digits")
	ErrPhoneInvalid     = errors.New("Please enter a valid phone number")
	ErrUnknownField     = errors.New("unknown form field")
)

// FieldState is the visual validation state of a form field.
type FieldState string

const (
	// FieldStateNeutral means the field has not been validated since its last edit.
	FieldStateNeutral FieldState = ""
	// FieldStateError means the last validation failed.
	FieldStateError FieldState = "error"
	// FieldStateSuccess means the last validation passed.
	FieldStateSuccess FieldState = "success"
)

// FieldResult is the outcome of validating a single field.
type FieldResult struct {
	Field Field `json:"field"`
	Err   error `json:"-"`
}

// Valid reports whether the field passed validation.
func (r FieldResult) Valid() bool {
	return r.Err == nil
}

// Message returns the user-facing error text, or "" when valid.
func (r FieldResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// State maps the result to the field's visual state.
func (r FieldResult) State() FieldState {
	if r.Err != nil {
		return FieldStateError
	}
	return FieldStateSuccess
}

// ValidationResult aggregates the results of every validated field.
type ValidationResult struct {
	Fields []FieldResult `json:"fields"`
}

// Valid reports whether every field passed.
func (v ValidationResult) Valid() bool {
	for _, f := range v.Fields {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Errors returns the failed fields keyed by field with their user-facing message.
func (v ValidationResult) Errors() map[Field]string {
	out := make(map[Field]string)
	for _, f := range v.Fields {
		if !f.Valid() {
			out[f.Field] = f.Message()
		}
	}
	return out
}

// Submission is the data posted to the remote endpoint.
type Submission struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Outcome is the user-visible result of a submit attempt.
type Outcome string

const (
	// OutcomeInvalid indicates validation failed and nothing was sent.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeSubmitted indicates the remote endpoint accepted the submission.
	OutcomeSubmitted Outcome = "submitted"
	// OutcomeFailed indicates the single attempt failed for any reason.
	OutcomeFailed Outcome = "failed"
)

// Banner is the global status message shown above the form.
type Banner string

const (
	// BannerNone hides both banners.
	BannerNone Banner = ""
	// BannerSuccess shows the success message.
	BannerSuccess Banner = "success"
	// BannerFailure shows the failure message.
	BannerFailure Banner = "failure"
)
