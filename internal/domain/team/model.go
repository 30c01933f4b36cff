package team

import (
	"fmt"
	"strings"
)

// Team is a canonical club record. ExternalID links the row to the
// sports-data provider; zero means the club has not been linked yet.
type Team struct {
	ID            int64
	Name          string
	Slug          string
	ExternalID    int64
	CompetitionID int64
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Slug == "" {
		return fmt.Errorf("team slug is required")
	}
	return nil
}

// DuplicatePair names two canonical rows that share an external id.
// Keep is the row that survives a merge, Delete the one folded into it.
type DuplicatePair struct {
	ExternalID int64
	KeepID     int64
	DeleteID   int64
	KeepSlug   string
	DeleteSlug string
}

// NormalizeName folds a display name for fuzzy matching against
// provider participant names: lower case, collapsed whitespace,
// common suffixes dropped.
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}
	for _, suffix := range []string{" fc", " afc", " cf"} {
		lowered = strings.TrimSuffix(lowered, suffix)
	}
	lowered = strings.TrimPrefix(lowered, "fc ")
	lowered = strings.TrimPrefix(lowered, "afc ")
	return strings.Join(strings.Fields(lowered), " ")
}
