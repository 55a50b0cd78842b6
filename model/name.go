package model

import (
	"regexp"
	"strings"
)

var (
	nameSuffixRegex  = regexp.MustCompile(`\b(jr|sr|ii|iii|iv|v)\b`)
	nameInvalidRegex = regexp.MustCompile(`[^a-z0-9 -]`)
)

// NormalizeName turns a display name into the key used to match the same player
// across sources. "L.T. Overton", "LT Overton" and "L T Overton" all become
// "lt overton", and "Ruben Bain Jr." becomes "ruben bain".
// An empty result means the name cannot be reconciled.
func NormalizeName(name string) string {
	n := strings.ToLower(name)
	n = strings.NewReplacer(".", " ", ",", " ").Replace(n)
	n = nameSuffixRegex.ReplaceAllString(n, " ")
	n = nameInvalidRegex.ReplaceAllString(n, "")

	tokens := strings.Fields(n)
	result := make([]string, 0, len(tokens))
	initials := ""
	for _, t := range tokens {
		if len(t) == 1 && t[0] >= 'a' && t[0] <= 'z' {
			initials += t
			continue
		}
		if initials != "" {
			result = append(result, initials)
			initials = ""
		}
		result = append(result, t)
	}
	if initials != "" {
		result = append(result, initials)
	}

	return strings.Join(result, " ")
}

// IsNormalizedName is true when normalizing the name does nothing more than
// lower case it and collapse its whitespace, i.e. it carries no punctuation,
// suffix or split initials.
func IsNormalizedName(name string) bool {
	key := NormalizeName(name)
	if key == "" {
		return false
	}
	return key == strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NameIndex maps normalized names to player ids.
type NameIndex struct {
	ids map[string]int64
}

// NewNameIndex indexes the players. When two players share a key the one seen
// first keeps it, so callers should pass players ordered by id.
func NewNameIndex(players []Player) *NameIndex {
	idx := &NameIndex{ids: make(map[string]int64, len(players))}
	for _, p := range players {
		idx.Add(p.Name, p.ID)
	}
	return idx
}

// Add indexes the name unless its key is empty or already taken.
func (idx *NameIndex) Add(name string, id int64) {
	key := NormalizeName(name)
	if key == "" {
		return
	}
	if _, found := idx.ids[key]; !found {
		idx.ids[key] = id
	}
}

// Lookup returns the player id whose normalized name matches the normalized
// form of name.
func (idx *NameIndex) Lookup(name string) (int64, bool) {
	key := NormalizeName(name)
	if key == "" {
		return 0, false
	}
	id, found := idx.ids[key]
	return id, found
}

var slugInvalidRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a board key from a board name, "PFF Big Board 2026" becomes "pff-big-board-2026".
func Slugify(name string) string {
	s := slugInvalidRegex.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
