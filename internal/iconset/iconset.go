// Package iconset provides the in-memory icon-set collection built from
// provider SVG trees, plus its export structure.
//
// Icons are keyed by sanitized names derived from source filenames:
// lowercase, with runs of non-alphanumeric characters collapsed to a
// single separator. Aliases are alternate lookup names pointing at an
// existing icon key.
package iconset

import (
	"fmt"
	"sort"
	"strings"
)

// Separator joins the sanitized fragments of an icon key
const Separator = "-"

// EntryType distinguishes real icons from aliases during enumeration
type EntryType string

const (
	// EntryTypeIcon marks an entry backed by SVG markup
	EntryTypeIcon EntryType = "icon"

	// EntryTypeAlias marks an alternate name pointing at an icon
	EntryTypeAlias EntryType = "alias"
)

// Icon holds the SVG markup for a single icon
type Icon struct {
	Body string
}

// Entry is one enumerated member of a Set
type Entry struct {
	Name string
	Type EntryType
}

// Set is the in-memory icon collection for one provider
type Set struct {
	prefix  string
	icons   map[string]*Icon
	aliases map[string]string
}

// New creates an empty icon set with the given namespace prefix
func New(prefix string) *Set {
	return &Set{
		prefix:  prefix,
		icons:   make(map[string]*Icon),
		aliases: make(map[string]string),
	}
}

// Prefix returns the set's namespace prefix
func (s *Set) Prefix() string {
	return s.prefix
}

// Add inserts or replaces the icon stored under name
func (s *Set) Add(name, body string) {
	s.icons[name] = &Icon{Body: body}
}

// HasIcon reports whether name is an icon key, aliases excluded
func (s *Set) HasIcon(name string) bool {
	_, ok := s.icons[name]
	return ok
}

// Has reports whether name resolves to an icon, directly or via alias
func (s *Set) Has(name string) bool {
	if _, ok := s.icons[name]; ok {
		return true
	}
	_, ok := s.aliases[name]
	return ok
}

// Get returns the icon stored under name, following one alias hop
func (s *Set) Get(name string) (*Icon, bool) {
	if icon, ok := s.icons[name]; ok {
		return icon, true
	}
	if target, ok := s.aliases[name]; ok {
		icon, ok := s.icons[target]
		return icon, ok
	}
	return nil, false
}

// Replace swaps the SVG body of an existing icon
func (s *Set) Replace(name, body string) error {
	icon, ok := s.icons[name]
	if !ok {
		return fmt.Errorf("icon %q not found", name)
	}
	icon.Body = body
	return nil
}

// Remove deletes an icon and any aliases pointing at it
func (s *Set) Remove(name string) {
	delete(s.icons, name)
	for alias, target := range s.aliases {
		if target == name {
			delete(s.aliases, alias)
		}
	}
}

// AddAlias registers alias as an alternate name for target.
// The target icon must already exist.
func (s *Set) AddAlias(alias, target string) error {
	if _, ok := s.icons[target]; !ok {
		return fmt.Errorf("alias target %q not found", target)
	}
	s.aliases[alias] = target
	return nil
}

// Names returns the icon keys in sorted order, aliases excluded
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.icons))
	for name := range s.icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries enumerates all members of the set in sorted order, icons first
func (s *Set) Entries() []Entry {
	entries := make([]Entry, 0, len(s.icons)+len(s.aliases))
	for _, name := range s.Names() {
		entries = append(entries, Entry{Name: name, Type: EntryTypeIcon})
	}

	aliases := make([]string, 0, len(s.aliases))
	for alias := range s.aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		entries = append(entries, Entry{Name: alias, Type: EntryTypeAlias})
	}

	return entries
}

// Len returns the number of icons in the set, aliases excluded
func (s *Set) Len() int {
	return len(s.icons)
}

// ExportedIcon is the serialized form of a single icon
type ExportedIcon struct {
	Body string `json:"body"`
}

// ExportedAlias is the serialized form of a single alias
type ExportedAlias struct {
	Parent string `json:"parent"`
}

// Export is the JSON-serializable form of a Set
type Export struct {
	Prefix  string                   `json:"prefix"`
	Icons   map[string]ExportedIcon  `json:"icons"`
	Aliases map[string]ExportedAlias `json:"aliases,omitempty"`
}

// Export converts the set to its serializable structure
func (s *Set) Export() *Export {
	out := &Export{
		Prefix: s.prefix,
		Icons:  make(map[string]ExportedIcon, len(s.icons)),
	}
	for name, icon := range s.icons {
		out.Icons[name] = ExportedIcon{Body: icon.Body}
	}
	if len(s.aliases) > 0 {
		out.Aliases = make(map[string]ExportedAlias, len(s.aliases))
		for alias, target := range s.aliases {
			out.Aliases[alias] = ExportedAlias{Parent: target}
		}
	}
	return out
}

// Sanitize derives an icon key from a source filename: the ".svg"
// extension is stripped, the rest is lowercased, and every run of
// characters outside [a-z0-9] collapses to a single separator.
// Sanitize("EC2 Instance.svg") == "ec2-instance".
func Sanitize(filename string) string {
	name := filename
	if ext := strings.ToLower(name); strings.HasSuffix(ext, ".svg") {
		name = name[:len(name)-len(".svg")]
	}
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
