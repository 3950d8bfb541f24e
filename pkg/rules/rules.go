package rules

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Length bounds, counted in runes.
const (
	MaxNameLength         = 50
	MaxUsernameLength     = 150
	MinQuestionTextLength = 10
)

// Role codes shared by the role, grade_level and department rules.
const (
	RoleStudent = "ST"
	RoleTeacher = "TE"
	RoleAdmin   = "AD"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9@.+_-]{1,150}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+\d{1,3}\d{9,15}$`)
)

// Closed value sets.
var (
	Roles          = []string{RoleStudent, RoleTeacher, RoleAdmin}
	Genders        = []string{"MA", "FE", "UD"}
	Difficulties   = []string{"E", "M", "H"}
	CorrectAnswers = []string{"A", "B", "C", "D"}
	QuestionTypes  = []string{"MCQ"}
	OptionLetters  = []string{"A", "B", "C", "D"}
)

var (
	roleChoice          = Choice(Roles, false, MsgRoleRequired, MsgRoleInvalid)
	genderChoice        = Choice(Genders, true, "", MsgGenderInvalid)
	difficultyChoice    = Choice(Difficulties, false, MsgDifficultyRequired, MsgDifficultyInvalid)
	correctAnswerChoice = Choice(CorrectAnswers, false, MsgCorrectAnswerRequired, MsgCorrectAnswerInvalid)
	questionTypeChoice  = Choice(QuestionTypes, false, MsgQuestionTypeRequired, MsgQuestionTypeInvalid)
)

// FirstName requires a value of at most 50 characters.
func FirstName(field Context) string {
	return boundedText(field.Value(), MsgFirstNameRequired, MsgFirstNameTooLong)
}

// LastName requires a value of at most 50 characters.
func LastName(field Context) string {
	return boundedText(field.Value(), MsgLastNameRequired, MsgLastNameTooLong)
}

func boundedText(value, required, tooLong string) string {
	if value == "" {
		return required
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return tooLong
	}
	return ""
}

// Username allows letters, digits and @ . + _ - up to 150 characters.
func Username(field Context) string {
	value := field.Value()
	if value == "" {
		return MsgUsernameRequired
	}
	if utf8.RuneCountInString(value) > MaxUsernameLength {
		return MsgUsernameTooLong
	}
	if !usernamePattern.MatchString(value) {
		return MsgUsernamePattern
	}
	return ""
}

// Email requires a local@domain.tld shaped address.
func Email(field Context) string {
	value := field.Value()
	if value == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(value) {
		return MsgEmailInvalid
	}
	return ""
}

// ParentEmail is an optional email address.
func ParentEmail(field Context) string {
	value := field.Value()
	if value == "" {
		return ""
	}
	if !emailPattern.MatchString(value) {
		return MsgParentEmailInvalid
	}
	return ""
}

// PhoneNumber is optional; when present it must be E.164.
func PhoneNumber(field Context) string {
	value := field.Value()
	if value == "" {
		return ""
	}
	if !phonePattern.MatchString(value) {
		return MsgPhoneInvalid
	}
	return ""
}

// Role requires one of ST, TE or AD.
func Role(field Context) string {
	return roleChoice(field)
}

// Gender is optional; when present it must be one of MA, FE or UD.
func Gender(field Context) string {
	return genderChoice(field)
}

// Difficulty requires one of E, M or H.
func Difficulty(field Context) string {
	return difficultyChoice(field)
}

// CorrectAnswer requires one of A, B, C or D.
func CorrectAnswer(field Context) string {
	return correctAnswerChoice(field)
}

// QuestionType only accepts MCQ.
func QuestionType(field Context) string {
	return questionTypeChoice(field)
}

// Choice builds an enumeration rule. An empty value is accepted only when
// optional is set; otherwise it reports required. Any other value outside
// allowed reports invalid.
func Choice(allowed []string, optional bool, required, invalid string) Func {
	set := slices.Clone(allowed)
	return func(field Context) string {
		value := field.Value()
		if value == "" {
			if optional {
				return ""
			}
			return required
		}
		if !slices.Contains(set, value) {
			return invalid
		}
		return ""
	}
}

// Required builds a presence rule with a fixed message.
func Required(message string) Func {
	return func(field Context) string {
		if field.Value() == "" {
			return message
		}
		return ""
	}
}

// Always accepts any value.
func Always(Context) string {
	return ""
}

// OldPassword requires the current password.
func OldPassword(field Context) string {
	if field.Value() == "" {
		return MsgOldPasswordRequired
	}
	return ""
}

// Token requires a non-empty token.
func Token(field Context) string {
	if field.Value() == "" {
		return MsgTokenRequired
	}
	return ""
}

// ConfirmDeletion requires a checked box or the literal value "true".
func ConfirmDeletion(field Context) string {
	if field.Value() == "true" || field.Checked() {
		return ""
	}
	return MsgConfirmDeletion
}

// GradeLevel is required when the form's role is student. Forms without a
// role field are treated as student forms.
func GradeLevel(field Context) string {
	role := siblingRole(field, RoleStudent)
	if role == RoleStudent && field.Value() == "" {
		return MsgGradeLevelRequired
	}
	return ""
}

// Department is required when the form's role is teacher or admin. Forms
// without a role field are treated as teacher forms.
func Department(field Context) string {
	role := siblingRole(field, RoleTeacher)
	if (role == RoleTeacher || role == RoleAdmin) && field.Value() == "" {
		return MsgDepartmentRequired
	}
	return ""
}

func siblingRole(field Context, fallback string) string {
	role, ok := field.Sibling("role")
	if !ok || role == "" {
		return fallback
	}
	return role
}

// Topics requires at least one selected option.
func Topics(field Context) string {
	if field.SelectedCount() == 0 {
		return MsgTopicsRequired
	}
	return ""
}

// QuestionText requires at least 10 characters.
func QuestionText(field Context) string {
	value := field.Value()
	if value == "" {
		return MsgQuestionTextRequired
	}
	if utf8.RuneCountInString(value) < MinQuestionTextLength {
		return MsgQuestionTextTooShort
	}
	return ""
}

// Option builds the required rule for an answer option letter.
func Option(letter string) Func {
	return Required(MsgOptionRequired(strings.TrimSpace(letter)))
}

// Metadata is optional; when present it must parse as JSON.
func Metadata(field Context) string {
	value := field.Value()
	if value == "" {
		return ""
	}
	if !json.Valid([]byte(value)) {
		return MsgMetadataInvalid
	}
	return ""
}

func joinComma(values []string) string {
	return strings.Join(values, ", ")
}
