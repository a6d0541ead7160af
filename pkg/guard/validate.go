package guard

import (
	"regexp"
	"strings"

	humane "github.com/sierrasoftworks/humane-errors-go"
)

// The validation rules mirror the server side exactly so that a request which
// passes here is never rejected by the server for shape alone. Rejections
// below never reach the network and never count as failed attempts.
var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
)

// passwordSymbols is the fixed symbol set a password must draw at least one
// character from. Characters outside letters, digits and this set make the
// password invalid outright.
const passwordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>?/`~"

// FieldError names a single offending form field so callers can mark it.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidateUsername checks the username shape: letters, digits and underscore
// only, no whitespace, at least three characters.
func ValidateUsername(username string) error {
	if usernameRe.MatchString(strings.TrimSpace(username)) {
		return nil
	}
	return FieldError{
		Field:   "username",
		Message: "Username must be at least 3 characters, contain only letters, numbers, and underscores, and cannot contain spaces.",
	}
}

// ValidatePassword checks the password shape: at least eight characters, at
// least one digit, at least one symbol, no whitespace anywhere.
func ValidatePassword(password string) error {
	return validatePasswordField("password", password)
}

func validatePasswordField(field, password string) error {
	if passwordShapeOK(strings.TrimSpace(password)) {
		return nil
	}
	return FieldError{
		Field:   field,
		Message: "Password must be at least 8 characters long, contain at least one digit, one special character, and no spaces.",
	}
}

func passwordShapeOK(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			// Whitespace or any character outside the allowed alphabet.
			return false
		}
	}
	return hasDigit && hasSymbol
}

// ValidateExpiry checks the token-expiry field: digits only, no whitespace.
func ValidateExpiry(expireHours string) error {
	if digitsRe.MatchString(expireHours) {
		return nil
	}
	return FieldError{
		Field:   "expire_hours",
		Message: "Expiration hours must be a number",
	}
}

func collectFieldErrors(errs ...error) humane.Error {
	var fields []string
	var messages []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var fe FieldError
		if ok := asFieldError(err, &fe); ok {
			fields = append(fields, fe.Field)
			messages = append(messages, fe.Message)
		} else {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return humane.New(strings.Join(messages, " "),
		"Fix the highlighted fields and submit again: "+strings.Join(fields, ", "),
	)
}

func asFieldError(err error, target *FieldError) bool {
	fe, ok := err.(FieldError)
	if !ok {
		return false
	}
	*target = fe
	return true
}
