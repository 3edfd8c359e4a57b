package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sakif/cabin-manager/internal/apperror"
)

// dateLayouts are the accepted date inputs: a full timestamp, or a plain
// calendar day (midnight UTC), which is what the calendar form posts.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("must be a valid date")
}

// isDate is an ozzo rule over string fields. Empty values pass so that
// Required reports them.
func isDate(message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := parseDate(s); err != nil {
			return errors.New(message)
		}
		return nil
	})
}

// toAppError converts an ozzo result into a single apperror.ValidationFailed
// carrying the first failing field's message. Fields are visited in name
// order so the message is stable.
func toAppError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for f := range fieldErrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			if fieldErrs[f] != nil {
				return apperror.ValidationFailed(f, fieldErrs[f].Error())
			}
		}
	}

	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return apperror.ValidationFailed("", ruleErr.Message())
	}

	// Internal errors from custom rules are not the caller's fault.
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return apperror.ValidationFailed("", err.Error())
}

// nonBlank returns the trimmed value when s is present and non-empty after
// trimming, and nil otherwise.
func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
