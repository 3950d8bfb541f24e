package rules

import "fmt"

// User-facing messages. Tests and callers compare against these values, so
// treat them as part of the package contract.
const (
	MsgFirstNameRequired = "First name is required."
	MsgFirstNameTooLong  = "First name must be 50 characters or less."
	MsgLastNameRequired  = "Last name is required."
	MsgLastNameTooLong   = "Last name must be 50 characters or less."

	MsgUsernameRequired = "Username is required."
	MsgUsernamePattern  = "Username can only contain letters, digits, and @/./+/-/_."
	MsgUsernameTooLong  = "Username must be 150 characters or less."

	MsgEmailRequired       = "Email is required."
	MsgEmailInvalid        = "Please enter a valid email address."
	MsgParentEmailInvalid  = "Please enter a valid parent email address."
	MsgPhoneInvalid        = "Please enter a valid phone number in E.164 format (e.g., +12025550123)."
	MsgRoleRequired        = "Role is required."
	MsgRoleInvalid         = "Invalid role selected."
	MsgGenderInvalid       = "Invalid gender selected."
	MsgConfirmDeletion     = "You must confirm account deletion."
	MsgTokenRequired       = "Token is required."
	MsgOldPasswordRequired = "Current password is required."

	MsgPasswordRequired  = "Password is required."
	MsgPasswordTooShort  = "Password must be at least 8 characters."
	MsgPasswordUppercase = "Password must include at least one uppercase letter."
	MsgPasswordDigit     = "Password must include at least one number."
	MsgPasswordSpecial   = "Password must include at least one special character."
	MsgConfirmRequired   = "Please confirm your password."
	MsgConfirmMismatch   = "Passwords do not match."

	MsgDateHyphenFormat = "Use YYYY-MM-DD."
	MsgDateSlashFormat  = "Use MM/DD/YYYY."
	MsgDateFormat       = "Invalid date format."
	MsgDateInvalid      = "Invalid date."

	MsgGradeLevelRequired = "Grade level is required for students."
	MsgDepartmentRequired = "Department is required for teachers/admins."

	MsgQuestionTypeRequired  = "Question type is required."
	MsgQuestionTypeInvalid   = "Only MCQ is supported."
	MsgDifficultyRequired    = "Difficulty is required."
	MsgDifficultyInvalid     = "Invalid difficulty selected."
	MsgTopicsRequired        = "At least one topic is required."
	MsgQuestionTextRequired  = "Question text is required."
	MsgQuestionTextTooShort  = "Question text is too short."
	MsgCorrectAnswerRequired = "Correct answer is required."
	MsgCorrectAnswerInvalid  = "Correct answer must be A, B, C, or D."
	MsgMetadataInvalid       = "Metadata must be valid JSON."

	MsgAvatarType       = "Please upload a valid image (JPEG, PNG, GIF, or WebP)."
	MsgAvatarUnreadable = "Uploaded file is not a valid image."
)

// MsgOptionRequired returns the required message for an answer option such as
// "options.A".
func MsgOptionRequired(letter string) string {
	return fmt.Sprintf("Option %s is required.", letter)
}

// MsgInvalidChoice is used by choice lists registered through overrides.
func MsgInvalidChoice(label string) string {
	return fmt.Sprintf("Invalid %s selected.", label)
}

// MsgPasswordRepeat is reported when a password repeats a character more
// than max times in a row.
func MsgPasswordRepeat(max int) string {
	return fmt.Sprintf("Password must not contain the same character more than %d times in a row.", max)
}

func msgAvatarExtension() string {
	return "Allowed extensions: " + joinComma(AllowedAvatarExtensions)
}

func msgAvatarSize() string {
	return fmt.Sprintf("Avatar must be under %d MB.", MaxAvatarSize/1024/1024)
}

func msgAvatarTooSmall() string {
	return fmt.Sprintf("Image is too small. Minimum %d×%dpx.", MinAvatarWidth, MinAvatarHeight)
}

func msgAvatarTooLarge() string {
	return fmt.Sprintf("Image is too large. Maximum %d×%dpx.", MaxAvatarWidth, MaxAvatarHeight)
}
