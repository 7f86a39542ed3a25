package product

import (
	"strings"
	"unicode/utf8"
)

const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidateTitle trims title and checks its length. required=false accepts a
// nil title, as partial updates do.
func ValidateTitle(title *string, required bool) (string, *FieldError) {
	if title == nil {
		if required {
			return "", &FieldError{Field: "title", Message: "Title is required"}
		}
		return "", nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" && required {
		return "", &FieldError{Field: "title", Message: "Title is required", Value: *title}
	}
	n := utf8.RuneCountInString(trimmed)
	if n < MinTitleLength || n > MaxTitleLength {
		return "", &FieldError{Field: "title", Message: "Title must be between 3 and 200 characters", Value: *title}
	}
	return trimmed, nil
}

func ValidateDescription(description *string) (string, *FieldError) {
	if description == nil {
		return "", nil
	}
	trimmed := strings.TrimSpace(*description)
	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return "", &FieldError{Field: "description", Message: "Description must not exceed 2000 characters"}
	}
	return trimmed, nil
}
