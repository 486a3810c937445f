package command

import "fmt"

// ResultStatus classifies the outcome of mapping an invocation to a command.
type ResultStatus string

const (
	// StatusSuccess means the command was found, the sender may use it and the
	// argument count fits.
	StatusSuccess ResultStatus = "SUCCESS"
	// StatusIncorrectArguments means the command was found but the argument
	// count is outside its bounds.
	StatusIncorrectArguments ResultStatus = "INCORRECT_ARGUMENTS"
	// StatusUnknownLabel means no command matched; the result may carry the
	// nearest known command.
	StatusUnknownLabel ResultStatus = "UNKNOWN_LABEL"
	// StatusMissingBaseCommand means there was nothing to map.
	StatusMissingBaseCommand ResultStatus = "MISSING_BASE_COMMAND"
	// StatusNoPermission means the command was found but the sender lacks its node.
	StatusNoPermission ResultStatus = "NO_PERMISSION"
)

// SuggestionThreshold is the upper bound (exclusive) on the difference of an
// unknown label for a "did you mean" hint to be shown.
const SuggestionThreshold = 1.0

// String returns the status name.
func (s ResultStatus) String() string {
	return string(s)
}

// IsSuccess returns true if the command can be executed.
func (s ResultStatus) IsSuccess() bool {
	return s == StatusSuccess
}

// RequiresDescription reports whether a result with this status must carry a description.
func (s ResultStatus) RequiresDescription() bool {
	switch s {
	case StatusSuccess, StatusIncorrectArguments, StatusNoPermission:
		return true
	default:
		return false
	}
}

// Validate returns an error if the status value is invalid
func (s ResultStatus) Validate() error {
	switch s {
	case StatusSuccess, StatusIncorrectArguments, StatusUnknownLabel,
		StatusMissingBaseCommand, StatusNoPermission:
		return nil
	default:
		return fmt.Errorf("invalid result status: %s", s)
	}
}
