package model

import (
	"cmp"
	"strconv"
	"strings"
)

// Grade tiers, best first. Anything that does not parse ends up in GradeTierNone.
const (
	GradeTierPokerChip = 0
	GradeTierNumerical = 1
	GradeTierAlphabet  = 2
	GradeTierRound     = 3
	GradeTierNone      = 9

	gradeOrdinalNone = 999
)

const (
	pokerChipPrefix = "poker chip - "
	numericalPrefix = "numerical - "
	alphabetPrefix  = "alphabet - "
)

var pokerChipOrder = map[string]int{
	"purple": 0,
	"black":  1,
	"blue":   2,
	"green":  3,
	"red":    4,
	"white":  5,
}

var alphabetOrder = []string{
	"A+", "A", "A-",
	"B+", "B", "B-",
	"C+", "C", "C-",
	"D+", "D", "D-",
	"F+", "F", "F-",
}

var roundOrder = map[string]int{
	"early": 0,
	"mid":   1,
	"late":  2,
}

// GradePriority is the parsed, comparable form of a free text grade. Lower sorts first.
type GradePriority struct {
	Tier    int
	Ordinal int
}

// Compare orders two priorities by tier, then by the ordinal inside the tier.
func (g GradePriority) Compare(o GradePriority) int {
	if c := cmp.Compare(g.Tier, o.Tier); c != 0 {
		return c
	}
	return cmp.Compare(g.Ordinal, o.Ordinal)
}

// Less reports whether g sorts before o.
func (g GradePriority) Less(o GradePriority) bool {
	return g.Compare(o) < 0
}

// ParseGrade maps a grade to its priority. The supported vocabularies are:
//
//	Poker Chip - Purple|Black|Blue|Green|Red|White
//	Numerical - 0..100 (higher is better)
//	Alphabet - A+..F-
//	Early-Round 1 .. Late-Round 7, UDFA
//
// The raw string stays the source of truth, this is recomputed whenever it is needed.
func ParseGrade(grade string) GradePriority {
	none := GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone}

	g := strings.TrimSpace(grade)
	if g == "" {
		return none
	}
	lower := strings.ToLower(g)

	if strings.HasPrefix(lower, pokerChipPrefix) {
		chip := strings.TrimSpace(strings.TrimPrefix(lower, pokerChipPrefix))
		ordinal, found := pokerChipOrder[chip]
		if !found {
			ordinal = 99
		}
		return GradePriority{Tier: GradeTierPokerChip, Ordinal: ordinal}
	}

	if strings.HasPrefix(lower, numericalPrefix) {
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(lower, numericalPrefix)))
		if err != nil {
			return none
		}
		v = max(0, min(100, v))
		return GradePriority{Tier: GradeTierNumerical, Ordinal: 100 - v}
	}

	if strings.HasPrefix(lower, alphabetPrefix) {
		letter := strings.ToUpper(strings.TrimSpace(g[len(alphabetPrefix):]))
		for i, a := range alphabetOrder {
			if a == letter {
				return GradePriority{Tier: GradeTierAlphabet, Ordinal: i}
			}
		}
		return none
	}

	if lower == "udfa" || lower == "udfa (undrafted free agent)" {
		return GradePriority{Tier: GradeTierRound, Ordinal: 100}
	}

	if ordinal, ok := parseRoundGrade(lower); ok {
		return GradePriority{Tier: GradeTierRound, Ordinal: ordinal}
	}

	return none
}

// parseRoundGrade handles "early-round 1" through "late-round 7".
func parseRoundGrade(lower string) (int, bool) {
	stage, rest, found := strings.Cut(lower, "-round ")
	if !found {
		return 0, false
	}
	offset, found := roundOrder[stage]
	if !found {
		return 0, false
	}
	if len(rest) != 1 || rest[0] < '1' || rest[0] > '7' {
		return 0, false
	}
	round := int(rest[0] - '0')
	return round*10 + offset, true
}
