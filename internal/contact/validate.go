// Package contact implements the contact form: field validation, the
// submission controller with its transient banners, and the submitters that
// deliver a submission to its remote endpoint.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/BTreeMap/CyberCore/internal/models"
)

var (
	// nameRegex allows ASCII letters and whitespace, including \v, Unicode
	// space separators, line/paragraph separators and the BOM
	nameRegex = regexp.MustCompile(`^[a-zA-Z\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+$`)
	// nonDigitRegex strips everything but digits during canonicalization
	nonDigitRegex = regexp.MustCompile(`\D`)
	// phoneRegex is a loose international pattern applied to the digits only
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// ValidateName checks a trimmed name for presence, minimum length and allowed characters.
func ValidateName(name string) models.FieldResult {
	res := models.FieldResult{Field: models.FieldName}
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		res.Err = models.ErrNameRequired
	case utf8.RuneCountInString(name) < models.MinNameLength:
		res.Err = models.ErrNameTooShort
	case !nameRegex.MatchString(name):
		res.Err = models.ErrNameInvalidChars
	}
	return res
}

// CanonicalizePhone removes every non-digit character from phone.
func CanonicalizePhone(phone string) string {
	return nonDigitRegex.ReplaceAllString(phone, "")
}

// ValidatePhone checks that a phone number carries 10 to 15 digits and does not start with 0.
// Formatting characters such as spaces, dashes, parentheses and a leading + are ignored.
func ValidatePhone(phone string) models.FieldResult {
	res := models.FieldResult{Field: models.FieldPhone}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		res.Err = models.ErrPhoneRequired
		return res
	}

	digits := CanonicalizePhone(phone)
	switch {
	case len(digits) < models.MinPhoneDigits:
		res.Err = models.ErrPhoneTooShort
	case len(digits) > models.MaxPhoneDigits:
		res.Err = models.ErrPhoneTooLong
	case !phoneRegex.MatchString(digits):
		res.Err = models.ErrPhoneInvalid
	}
	return res
}

// ValidateField validates a single field. The message field always passes.
func ValidateField(field models.Field, value string) models.FieldResult {
	switch field {
	case models.FieldName:
		return ValidateName(value)
	case models.FieldPhone:
		return ValidatePhone(value)
	case models.FieldMessage:
		return models.FieldResult{Field: models.FieldMessage}
	default:
		return models.FieldResult{Field: field, Err: models.ErrUnknownField}
	}
}

// ValidateForm validates the name and phone of a submission.
func ValidateForm(s models.Submission) models.ValidationResult {
	return models.ValidationResult{Fields: []models.FieldResult{
		ValidateName(s.Name),
		ValidatePhone(s.Phone),
	}}
}
