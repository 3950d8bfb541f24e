package registry

import (
	"github.com/goliatone/go-formguard/pkg/rules"
)

// OptionsPrefix is the dotted family used by answer option fields.
const OptionsPrefix = "options."

// Default returns a registry populated with the built-in field names:
//
//	first_name last_name username email/new_email role
//	password/new_password password2/new_password2 old_password
//	phone_number date_of_birth gender parent_email confirm_deletion token
//	avatar grade_level department office_number qualifications
//	question_type difficulty topics question_text options.A..options.D
//	correct_answer metadata
//
// Any other "options.X" key falls back to a generic required rule.
func Default(opts ...Option) *Registry {
	reg := New(opts...)
	RegisterDefaults(reg)
	return reg
}

// RegisterDefaults installs the built-in rules into reg.
func RegisterDefaults(reg *Registry) {
	if reg == nil {
		return
	}
	builtins := map[string]rules.Func{
		"first_name":       rules.FirstName,
		"last_name":        rules.LastName,
		"username":         rules.Username,
		"email":            rules.Email,
		"role":             rules.Role,
		"password":         rules.Password,
		"password2":        rules.PasswordConfirmation,
		"old_password":     rules.OldPassword,
		"phone_number":     rules.PhoneNumber,
		"date_of_birth":    rules.DateOfBirth,
		"gender":           rules.Gender,
		"parent_email":     rules.ParentEmail,
		"confirm_deletion": rules.ConfirmDeletion,
		"token":            rules.Token,
		"grade_level":      rules.GradeLevel,
		"department":       rules.Department,
		"office_number":    rules.Always,
		"qualifications":   rules.Always,
		"question_type":    rules.QuestionType,
		"difficulty":       rules.Difficulty,
		"topics":           rules.Topics,
		"question_text":    rules.QuestionText,
		"correct_answer":   rules.CorrectAnswer,
		"metadata":         rules.Metadata,
	}
	for name, fn := range builtins {
		reg.RegisterFunc(name, fn)
	}
	for _, letter := range rules.OptionLetters {
		reg.RegisterFunc(OptionsPrefix+letter, rules.Option(letter))
	}
	reg.Register("avatar", Async(rules.Avatar))

	reg.Alias("new_email", "email")
	reg.Alias("new_password", "password")
	reg.Alias("new_password2", "password2")

	reg.RegisterFamily(OptionsPrefix, func(suffix string) Rule {
		return Sync(rules.Option(suffix))
	})
}
