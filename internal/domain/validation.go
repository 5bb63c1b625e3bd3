package domain

import "unicode/utf8"

const (
	MinNameLength = 1
	MaxNameLength = 100
)

const (
	msgListNameLength = "List name must be between 1 and 100 characters"
	msgListNameUnique = "List name must be unique"
	msgTodoNameLength = "Todo must be between 1 and 100 characters"
)

// ValidationError is a user-facing message for a rejected name.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ValidateListName checks length first, then uniqueness against existing lists.
func ValidateListName(name string, existing []*List) error {
	if !validLength(name) {
		return &ValidationError{Msg: msgListNameLength}
	}
	for _, l := range existing {
		if l.Name == name {
			return &ValidationError{Msg: msgListNameUnique}
		}
	}
	return nil
}

// ValidateTodoName checks the todo name length.
func ValidateTodoName(name string) error {
	if !validLength(name) {
		return &ValidationError{Msg: msgTodoNameLength}
	}
	return nil
}

func validLength(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinNameLength && n <= MaxNameLength
}
