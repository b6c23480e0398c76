package svg

import (
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorPolicy receives each color discovered in the markup and returns
// the string to substitute for it
type ColorPolicy func(color string) string

// IdentityColors preserves every color unchanged. This is the pipeline's
// default: provider icons are architecture-diagram artwork whose brand
// colors carry meaning.
func IdentityColors(color string) string {
	return color
}

// colorAttrRe matches presentation attributes carrying a paint value
var colorAttrRe = regexp.MustCompile(`(fill|stroke|stop-color|flood-color|lighting-color)="([^"]*)"`)

// colorStyleRe matches the same properties inside style attributes or blocks
var colorStyleRe = regexp.MustCompile(`(fill|stroke|stop-color|flood-color|lighting-color)\s*:\s*([^;:"'}<>]+)`)

// RewriteColors finds color values in the markup and substitutes each
// with the policy's return value. Paint keywords ("none",
// "currentColor", "inherit") and url() references pass through
// untouched, as do values that do not parse as colors.
func RewriteColors(markup string, policy ColorPolicy) string {
	out := colorAttrRe.ReplaceAllStringFunc(markup, func(match string) string {
		parts := colorAttrRe.FindStringSubmatch(match)
		return parts[1] + `="` + substituteColor(parts[2], policy) + `"`
	})

	return colorStyleRe.ReplaceAllStringFunc(out, func(match string) string {
		parts := colorStyleRe.FindStringSubmatch(match)
		return parts[1] + ":" + substituteColor(parts[2], policy)
	})
}

// substituteColor invokes the policy for recognizable color values
func substituteColor(value string, policy ColorPolicy) string {
	trimmed := strings.TrimSpace(value)

	switch strings.ToLower(trimmed) {
	case "", "none", "currentcolor", "inherit", "transparent":
		return value
	}
	if strings.HasPrefix(trimmed, "url(") {
		return value
	}

	// Hex values must actually parse before the policy sees them
	if strings.HasPrefix(trimmed, "#") {
		if _, err := colorful.Hex(trimmed); err != nil {
			return value
		}
	}

	return policy(trimmed)
}
