package user

import "errors"

const (
	handleMinLen = 3
	handleMaxLen = 24

	passwordMinLen = 8
	passwordMaxLen = 96
)

var (
	ErrHandleLength                = errors.New("handle must be between 3 and 24 characters")
	ErrHandleInvalidChars          = errors.New("handle must be entirely letters, digits, dots, hyphens or underscores")
	ErrHandleLeadTrailSpecialChars = errors.New("handle must not have leading or trailing special characters")
	ErrHandleConsecutiveSpecials   = errors.New("handle must not have consecutive special characters")

	ErrPasswordLength = errors.New("password must be between 8 and 96 characters")
)

// ValidateHandle checks the handle rules: length 3-24, ASCII alphanumerics
// plus dots, hyphens and underscores, with no leading, trailing or
// consecutive special characters.
func ValidateHandle(handle string) error {
	if len(handle) < handleMinLen || len(handle) > handleMaxLen {
		return ErrHandleLength
	}
	for i := 0; i < len(handle); i++ {
		if !isHandleChar(handle[i]) {
			return ErrHandleInvalidChars
		}
	}
	if isSpecial(handle[0]) || isSpecial(handle[len(handle)-1]) {
		return ErrHandleLeadTrailSpecialChars
	}
	for i := 1; i < len(handle); i++ {
		if isSpecial(handle[i-1]) && isSpecial(handle[i]) {
			return ErrHandleConsecutiveSpecials
		}
	}
	return nil
}

// ValidatePassword checks the password length bounds. Strength beyond length
// is the user's problem; the archive is not a bank.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return ErrPasswordLength
	}
	return nil
}

func isSpecial(c byte) bool {
	return c == '.' || c == '_' || c == '-'
}

func isHandleChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	default:
		return isSpecial(c)
	}
}
