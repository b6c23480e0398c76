// Package alias maps configured human-friendly alias names onto
// sanitized icon keys already present in an icon set.
package alias

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/diagramkit/cloudicons/internal/iconset"
)

// Result summarizes one resolution pass
type Result struct {
	// Assigned counts aliases bound to an icon key
	Assigned int

	// Missed counts aliases that matched nothing and were skipped
	Missed int
}

// Resolve assigns each configured alias to an icon in the set. The raw
// source filename is sanitized with the importer's transform; an exact
// key match wins, otherwise the first sorted key containing the derived
// key as a substring is used. Aliases that match nothing are logged and
// skipped; a miss is never an error.
func Resolve(set *iconset.Set, aliases map[string]string) Result {
	var result Result

	// Deterministic assignment order regardless of map iteration
	filenames := make([]string, 0, len(aliases))
	for filename := range aliases {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		name := aliases[filename]
		derived := iconset.Sanitize(filename)

		target, ok := findTarget(set, derived)
		if !ok {
			slog.Info("No icon matches alias, skipping",
				"alias", name, "filename", filename, "derived", derived)
			result.Missed++
			continue
		}

		if err := set.AddAlias(name, target); err != nil {
			// Target came from the set, so this indicates a bug
			slog.Warn("Failed to assign alias", "alias", name, "target", target, "error", err)
			result.Missed++
			continue
		}

		slog.Debug("Assigned alias", "alias", name, "target", target)
		result.Assigned++
	}

	return result
}

// findTarget locates the icon key for a derived alias key: exact match
// first, then first substring match over the sorted keys
func findTarget(set *iconset.Set, derived string) (string, bool) {
	if derived == "" {
		return "", false
	}

	if set.HasIcon(derived) {
		return derived, true
	}

	for _, key := range set.Names() {
		if strings.Contains(key, derived) {
			return key, true
		}
	}

	return "", false
}
