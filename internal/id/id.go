package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Slug derives an account ID from a display name: lowercase, every run of
// characters outside [a-z0-9] collapsed to a single "_", then trimmed.
// "Owner's Capital" -> "owner_s_capital". Returns "" when nothing survives.
func Slug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// FormatEntryID returns a transaction ID like "T0001" for a posting step.
func FormatEntryID(step int) string {
	return fmt.Sprintf("T%04d", step)
}

// FormatLegID returns a leg ID like "T0001a" (leg 0='a' debit, 1='b' credit).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParseEntryID parses "T0001" (or a leg ID "T0001b") into its step.
func ParseEntryID(id string) (int, error) {
	base := EntryGroup(id)
	if !strings.HasPrefix(base, "T") {
		return 0, fmt.Errorf("invalid entry ID format: %q", id)
	}
	step, err := strconv.Atoi(base[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid step in entry ID %q: %w", id, err)
	}
	if step < 1 {
		return 0, fmt.Errorf("invalid step in entry ID %q: must be >= 1", id)
	}
	return step, nil
}

// EntryGroup strips the leg suffix from a leg ID.
// "T0001a" -> "T0001"
func EntryGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
