package rules

import (
	"net/url"
	"strings"
	"testing"
)

func field(name, value string, siblings ...string) ValuesContext {
	values := url.Values{}
	values.Set(name, value)
	for i := 0; i+1 < len(siblings); i += 2 {
		values.Set(siblings[i], siblings[i+1])
	}
	return ValuesContext{Field: name, Values: values}
}

func TestRequiredTextRules_EmptyReportsRequired(t *testing.T) {
	cases := map[string]struct {
		rule Func
		want string
	}{
		"first_name":     {FirstName, MsgFirstNameRequired},
		"last_name":      {LastName, MsgLastNameRequired},
		"username":       {Username, MsgUsernameRequired},
		"email":          {Email, MsgEmailRequired},
		"role":           {Role, MsgRoleRequired},
		"password":       {Password, MsgPasswordRequired},
		"password2":      {PasswordConfirmation, MsgConfirmRequired},
		"old_password":   {OldPassword, MsgOldPasswordRequired},
		"token":          {Token, MsgTokenRequired},
		"question_type":  {QuestionType, MsgQuestionTypeRequired},
		"difficulty":     {Difficulty, MsgDifficultyRequired},
		"question_text":  {QuestionText, MsgQuestionTextRequired},
		"correct_answer": {CorrectAnswer, MsgCorrectAnswerRequired},
		"options.A":      {Option("A"), "Option A is required."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.rule(field(name, "   ")); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestOptionalRules_EmptyIsValid(t *testing.T) {
	optional := map[string]Func{
		"phone_number":   PhoneNumber,
		"parent_email":   ParentEmail,
		"gender":         Gender,
		"metadata":       Metadata,
		"date_of_birth":  DateOfBirth,
		"office_number":  Always,
		"qualifications": Always,
	}
	for name, rule := range optional {
		if got := rule(field(name, "")); got != "" {
			t.Fatalf("%s: expected empty input to pass, got %q", name, got)
		}
	}
}

func TestUsername(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"abc def", MsgUsernamePattern},
		{strings.Repeat("a", 151), MsgUsernameTooLong},
		{strings.Repeat("a", 150), ""},
		{"a", ""},
		{"jane.doe+test@example_1-x", ""},
		{"bad!name", MsgUsernamePattern},
	}
	for _, tc := range cases {
		if got := Username(field("username", tc.value)); got != tc.want {
			t.Fatalf("username %q: expected %q, got %q", tc.value, tc.want, got)
		}
	}
}

func TestNames_Length(t *testing.T) {
	if got := FirstName(field("first_name", strings.Repeat("x", 51))); got != MsgFirstNameTooLong {
		t.Fatalf("expected too long message, got %q", got)
	}
	if got := LastName(field("last_name", strings.Repeat("é", 50))); got != "" {
		t.Fatalf("expected 50 runes to pass, got %q", got)
	}
}

func TestEmailAndPhone(t *testing.T) {
	if got := Email(field("email", "user@example")); got != MsgEmailInvalid {
		t.Fatalf("expected invalid email, got %q", got)
	}
	if got := Email(field("email", "user@example.com")); got != "" {
		t.Fatalf("expected valid email, got %q", got)
	}
	if got := ParentEmail(field("parent_email", "no at sign")); got != MsgParentEmailInvalid {
		t.Fatalf("expected invalid parent email, got %q", got)
	}
	if got := PhoneNumber(field("phone_number", "+12025550123")); got != "" {
		t.Fatalf("expected valid phone, got %q", got)
	}
	if got := PhoneNumber(field("phone_number", "2025550123")); got != MsgPhoneInvalid {
		t.Fatalf("expected invalid phone, got %q", got)
	}
}

func TestPassword_FirstFailureOnly(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"Ab1!", MsgPasswordTooShort},
		{"abcdefgh", MsgPasswordUppercase},
		{"Abcdefgh", MsgPasswordDigit},
		{"Abcdefg1", MsgPasswordSpecial},
		{"Abcdefg1!", ""},
	}
	for _, tc := range cases {
		if got := Password(field("password", tc.value)); got != tc.want {
			t.Fatalf("password %q: expected %q, got %q", tc.value, tc.want, got)
		}
	}
}

func TestPasswordWithMaxRepeat(t *testing.T) {
	rule := PasswordWithMaxRepeat(3)
	if got := rule(field("password", "Aaaaa1!x")); got != MsgPasswordRepeat(3) {
		t.Fatalf("expected repeat message, got %q", got)
	}
	if got := rule(field("password", "Aaa1!xyz")); got != "" {
		t.Fatalf("expected pass, got %q", got)
	}
}

func TestPasswordConfirmation(t *testing.T) {
	if got := PasswordConfirmation(field("password2", "Abcdefg1!", "password", "Abcdefg1!")); got != "" {
		t.Fatalf("expected match, got %q", got)
	}
	if got := PasswordConfirmation(field("password2", "x", "password", "Abcdefg1!")); got != MsgConfirmMismatch {
		t.Fatalf("expected mismatch, got %q", got)
	}
	if got := PasswordConfirmation(field("new_password2", "Abcdefg1!", "new_password", "Abcdefg1!")); got != "" {
		t.Fatalf("expected new_password sibling to match, got %q", got)
	}
}

func TestDateOfBirth(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"2024-02-29", ""},
		{"2023-02-29", MsgDateInvalid},
		{"2024-02-30", MsgDateInvalid},
		{"2024-2-3", MsgDateHyphenFormat},
		{"02/30/2024", MsgDateSlashFormat},
		{"13/01/2024", MsgDateSlashFormat},
		{"02/29/2024", ""},
		{"2024.02.01", MsgDateFormat},
	}
	for _, tc := range cases {
		if got := DateOfBirth(field("date_of_birth", tc.value)); got != tc.want {
			t.Fatalf("date %q: expected %q, got %q", tc.value, tc.want, got)
		}
	}
}

func TestMetadata(t *testing.T) {
	if got := Metadata(field("metadata", "{not json}")); got != MsgMetadataInvalid {
		t.Fatalf("expected invalid JSON message, got %q", got)
	}
	if got := Metadata(field("metadata", `{"a":1}`)); got != "" {
		t.Fatalf("expected valid JSON, got %q", got)
	}
}

func TestConditionalRoles(t *testing.T) {
	if got := GradeLevel(field("grade_level", "", "role", "ST")); got != MsgGradeLevelRequired {
		t.Fatalf("expected grade level required for students, got %q", got)
	}
	if got := GradeLevel(field("grade_level", "", "role", "TE")); got != "" {
		t.Fatalf("expected teacher form to skip grade level, got %q", got)
	}
	if got := GradeLevel(field("grade_level", "")); got != MsgGradeLevelRequired {
		t.Fatalf("expected student fallback without role field, got %q", got)
	}
	if got := Department(field("department", "")); got != MsgDepartmentRequired {
		t.Fatalf("expected teacher fallback without role field, got %q", got)
	}
	if got := Department(field("department", "", "role", "AD")); got != MsgDepartmentRequired {
		t.Fatalf("expected department required for admins, got %q", got)
	}
	if got := Department(field("department", "", "role", "ST")); got != "" {
		t.Fatalf("expected student form to skip department, got %q", got)
	}
}

func TestEnumerations(t *testing.T) {
	if got := Role(field("role", "XX")); got != MsgRoleInvalid {
		t.Fatalf("expected invalid role, got %q", got)
	}
	if got := Gender(field("gender", "XX")); got != MsgGenderInvalid {
		t.Fatalf("expected invalid gender, got %q", got)
	}
	if got := QuestionType(field("question_type", "TF")); got != MsgQuestionTypeInvalid {
		t.Fatalf("expected MCQ only, got %q", got)
	}
	if got := CorrectAnswer(field("correct_answer", "E")); got != MsgCorrectAnswerInvalid {
		t.Fatalf("expected invalid answer, got %q", got)
	}
}

func TestConfirmDeletionAndTopics(t *testing.T) {
	if got := ConfirmDeletion(field("confirm_deletion", "")); got != MsgConfirmDeletion {
		t.Fatalf("expected confirm message, got %q", got)
	}
	if got := ConfirmDeletion(field("confirm_deletion", "true")); got != "" {
		t.Fatalf("expected true to confirm, got %q", got)
	}
	if got := ConfirmDeletion(field("confirm_deletion", "on")); got != "" {
		t.Fatalf("expected checked box to confirm, got %q", got)
	}

	values := url.Values{"topics": {"algebra", "geometry"}}
	if got := Topics(ValuesContext{Field: "topics", Values: values}); got != "" {
		t.Fatalf("expected topics to pass, got %q", got)
	}
	if got := Topics(ValuesContext{Field: "topics", Values: url.Values{}}); got != MsgTopicsRequired {
		t.Fatalf("expected topics required, got %q", got)
	}
}

func TestQuestionText(t *testing.T) {
	if got := QuestionText(field("question_text", "too short")); got != MsgQuestionTextTooShort {
		t.Fatalf("expected too short, got %q", got)
	}
	if got := QuestionText(field("question_text", "What is 2 + 2?")); got != "" {
		t.Fatalf("expected valid question, got %q", got)
	}
}
