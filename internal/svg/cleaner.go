// Package svg provides SVG markup cleanup for imported icons: markup
// normalization, size optimization, and color rewriting under a
// caller-supplied policy.
package svg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	svgminify "github.com/tdewolff/minify/v2/svg"
)

const svgMediaType = "image/svg+xml"

var (
	xmlPrologRe  = regexp.MustCompile(`(?s)<\?xml.*?\?>`)
	doctypeRe    = regexp.MustCompile(`(?is)<!DOCTYPE.*?>`)
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	editorMetaRe = regexp.MustCompile(`(?s)<(metadata|sodipodi:namedview)[\s>].*?</(metadata|sodipodi:namedview)>`)
)

// Cleaner runs the fixed cleanup pipeline on SVG markup
type Cleaner struct {
	minifier *minify.M
}

// NewCleaner creates a cleaner with the SVG minifier registered
func NewCleaner() *Cleaner {
	m := minify.New()
	m.AddFunc(svgMediaType, svgminify.Minify)
	return &Cleaner{minifier: m}
}

// Clean normalizes the markup, optimizes it, and rewrites colors under
// the given policy, in that fixed order. The optimizer assumes
// normalized input, so the order is not interchangeable.
func (c *Cleaner) Clean(markup string, policy ColorPolicy) (string, error) {
	normalized, err := Normalize(markup)
	if err != nil {
		return "", err
	}

	optimized, err := c.optimize(normalized)
	if err != nil {
		return "", err
	}

	return RewriteColors(optimized, policy), nil
}

// Normalize strips the XML prolog, doctype, comments, and editor
// metadata, leaving a bare <svg> document
func Normalize(markup string) (string, error) {
	out := strings.TrimPrefix(markup, "\uFEFF")
	out = xmlPrologRe.ReplaceAllString(out, "")
	out = doctypeRe.ReplaceAllString(out, "")
	out = commentRe.ReplaceAllString(out, "")
	out = editorMetaRe.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)

	if !strings.Contains(out, "<svg") {
		return "", fmt.Errorf("markup has no <svg> root element")
	}

	return out, nil
}

// optimize runs the markup through the SVG minifier
func (c *Cleaner) optimize(markup string) (string, error) {
	out, err := c.minifier.String(svgMediaType, markup)
	if err != nil {
		return "", fmt.Errorf("svg optimization failed: %w", err)
	}
	return out, nil
}
