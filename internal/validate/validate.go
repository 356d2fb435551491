// Package validate holds the client-side validation rules shared by the CLI
// commands and the session operations. All functions are pure: they never
// touch the network or the credential store.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength applies to registration and password changes.
const MinPasswordLength = 6

// CedulaLength is the digit count of a Dominican cédula.
const CedulaLength = 11

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrEmailRequired     = errors.New("email is required")
	ErrEmailFormat       = errors.New("invalid email format")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordTooShort  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
	ErrCedulaRequired    = errors.New("cedula is required")
	ErrCedulaDigits      = errors.New("cedula must contain only digits")
	ErrCedulaLength      = fmt.Errorf("cedula must have exactly %d digits", CedulaLength)
)

// Email checks the basic local@domain.tld shape
func Email(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}

// Password checks the minimum length rule for registration and changes
func Password(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordChange checks the full rule set for a password change:
// new != current, new == confirmation, minimum length.
func PasswordChange(current, new, confirm string) error {
	if current == "" {
		return errors.New("current password is required")
	}
	if err := Password(new); err != nil {
		return err
	}
	if new != confirm {
		return ErrPasswordMismatch
	}
	if new == current {
		return ErrPasswordUnchanged
	}
	return nil
}

// Registration checks the fields sent to /auth/register
func Registration(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// CleanCedula strips every non-digit character
func CleanCedula(cedula string) string {
	var b strings.Builder
	b.Grow(len(cedula))
	for _, r := range cedula {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Cedula checks that the input is exactly 11 digits after stripping separators
func Cedula(cedula string) error {
	if cedula == "" {
		return ErrCedulaRequired
	}
	stripped := strings.ReplaceAll(cedula, "-", "")
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return ErrCedulaDigits
		}
	}
	if len(stripped) != CedulaLength {
		return ErrCedulaLength
	}
	return nil
}

// CedulaForSearch allows partial cédulas of 1 to 11 digits
func CedulaForSearch(cedula string) error {
	digits := CleanCedula(cedula)
	if digits == "" {
		return errors.New("cedula must contain at least one digit")
	}
	if len(digits) > CedulaLength {
		return fmt.Errorf("cedula cannot have more than %d digits", CedulaLength)
	}
	return nil
}

// FormatCedula groups the digits as XXX-XXXXXXX-X. Inputs with fewer than
// three digits are returned as digits only, with no separators inserted.
func FormatCedula(cedula string) string {
	digits := CleanCedula(cedula)
	if len(digits) < 3 {
		return digits
	}

	formatted := digits[:3]
	if len(digits) > 3 {
		end := min(len(digits), 10)
		formatted += "-" + digits[3:end]
		if len(digits) > 10 {
			formatted += "-" + digits[10:11]
		}
	}
	return formatted
}
