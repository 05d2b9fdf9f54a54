package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// ReservedUsername collides with the /users/me route.
const ReservedUsername = "me"

func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s) && !strings.EqualFold(s, ReservedUsername)
}

func ValidateTag(t *Tag) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return apperror.Validation("name", "tag name is required")
	case len([]rune(t.Name)) > MaxNameLength:
		return apperror.Validation("name", fmt.Sprintf("tag name exceeds %d characters", MaxNameLength))
	case !ValidSlug(t.Slug):
		return apperror.Validation("slug", fmt.Sprintf("invalid slug %q", t.Slug))
	case !ValidHexColor(t.Color):
		return apperror.Validation("color", fmt.Sprintf("invalid color %q", t.Color))
	}
	return nil
}
