package ext

import (
	"fmt"
	"strings"

	"github.com/r3labs/diff/v3"
)

// Diff lists the field changes turning a into b. Slice order is ignored.
func Diff(a, b any, opts ...func(d *diff.Differ) error) (diff.Changelog, error) {
	return diff.Diff(a, b, append([]func(d *diff.Differ) error{diff.DisableStructValues()}, opts...)...)
}

// DiffLog is Diff plus a one-line-per-change rendering for logs.
func DiffLog(a, b any) (diff.Changelog, string, error) {
	changes, err := Diff(a, b)
	if err != nil {
		return nil, "", err
	}
	return changes, FormatChangelog(changes), nil
}

func FormatChangelog(changes diff.Changelog) string {
	if len(changes) == 0 {
		return ""
	}
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("  %s %s: %v -> %v", c.Type, strings.Join(c.Path, "."), c.From, c.To))
	}
	return strings.Join(lines, "\n")
}
