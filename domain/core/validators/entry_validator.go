package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"thoughtgraph/pkg/errors"
)

// EntryValidator validates entry-related domain rules
type EntryValidator struct {
	textMaxLength int
	tagMaxLength  int
	maxTags       int
	tagPattern    *regexp.Regexp
}

// NewEntryValidator creates a new entry validator with default rules
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{
		textMaxLength: 5000,
		tagMaxLength:  50,
		maxTags:       20,
		tagPattern:    regexp.MustCompile(`^[\p{L}\p{N}_-]+$`),
	}
}

// ValidateText checks the entry text
func (v *EntryValidator) ValidateText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.NewValidationError("text cannot be empty")
	}
	if utf8.RuneCountInString(text) > v.textMaxLength {
		return errors.NewValidationError(fmt.Sprintf("text exceeds %d characters", v.textMaxLength)).
			WithDetails(map[string]interface{}{"field": "text"})
	}
	return nil
}

// ValidateTags checks explicit tags before normalization
func (v *EntryValidator) ValidateTags(tags []string) error {
	if len(tags) > v.maxTags {
		return errors.NewValidationError(fmt.Sprintf("at most %d tags are allowed", v.maxTags))
	}
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" {
			return errors.NewValidationError("tag cannot be empty")
		}
		if utf8.RuneCountInString(tag) > v.tagMaxLength {
			return errors.NewValidationError(fmt.Sprintf("tag %q exceeds %d characters", tag, v.tagMaxLength))
		}
		if !v.tagPattern.MatchString(tag) {
			return errors.NewValidationError(fmt.Sprintf("tag %q may only contain letters, digits, '_' and '-'", tag))
		}
	}
	return nil
}
