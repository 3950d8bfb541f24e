package rules

import "unicode/utf8"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordFields lists the names probed, in order, when a confirmation field
// looks up the password it confirms.
var PasswordFields = []string{"password", "new_password"}

// Password checks length, then uppercase, digit and special character
// presence, reporting only the first failing condition.
func Password(field Context) string {
	return checkPassword(field.Value(), 0)
}

// PasswordWithMaxRepeat behaves like Password and additionally rejects more
// than max consecutive identical characters. A max below one disables the
// extra check.
func PasswordWithMaxRepeat(max int) Func {
	return func(field Context) string {
		return checkPassword(field.Value(), max)
	}
}

func checkPassword(value string, maxRepeat int) string {
	if value == "" {
		return MsgPasswordRequired
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		return MsgPasswordTooShort
	}

	var upper, digit, special bool
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case c >= 'a' && c <= 'z':
		default:
			special = true
		}
	}

	if !upper {
		return MsgPasswordUppercase
	}
	if !digit {
		return MsgPasswordDigit
	}
	if !special {
		return MsgPasswordSpecial
	}
	if maxRepeat > 0 && longestRun(value) > maxRepeat {
		return MsgPasswordRepeat(maxRepeat)
	}
	return ""
}

func longestRun(value string) int {
	longest, run := 0, 0
	var prev rune = -1
	for _, r := range value {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// PasswordConfirmation compares the field with the password of the same form,
// probing "password" then "new_password".
func PasswordConfirmation(field Context) string {
	value := field.Value()
	if value == "" {
		return MsgConfirmRequired
	}
	password, _ := field.Sibling(PasswordFields...)
	if value != password {
		return MsgConfirmMismatch
	}
	return ""
}
