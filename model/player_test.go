package model

import (
	"testing"
	"time"
)

func TestPlayerFormatFunctions(t *testing.T) {
	empty := &Player{}
	if empty.FormattedScoutDate() != "never" {
		t.Error("scout date is not never")
	}
	if empty.FormattedRank() != "NR" {
		t.Error("rank is not NR")
	}

	rank := 12
	p := &Player{
		Rank:      &rank,
		ScoutDate: time.Date(2025, 11, 2, 18, 4, 51, 0, time.UTC),
	}
	if p.FormattedScoutDate() != "2025-11-02 18:04:51" {
		t.Errorf("scout date was not expected value: '%s'", p.FormattedScoutDate())
	}
	if p.FormattedRank() != "12" {
		t.Errorf("rank was not expected value: '%s'", p.FormattedRank())
	}
	if p.RankOr(9999) != 12 {
		t.Errorf("RankOr was not expected value: %d", p.RankOr(9999))
	}
	if empty.RankOr(9999) != 9999 {
		t.Errorf("RankOr of an unranked player was not the default: %d", empty.RankOr(9999))
	}
}

func TestCompletenessScore(t *testing.T) {
	tests := map[string]struct {
		p        Player
		expected int
	}{
		"bare":          {p: Player{Name: "Ruben Bain Jr."}, expected: 0},
		"scouted only":  {p: Player{Name: "Ruben Bain", Scouted: true}, expected: 5},
		"profile":       {p: Player{Position: "EDGE", School: "Miami", Height: "6'3\"", Weight: "275"}, expected: 4},
		"blank strings": {p: Player{Position: " ", Notes: ""}, expected: 0},
		"everything": {p: Player{
			Position:       "QB",
			School:         "Texas",
			Height:         "6'4\"",
			Weight:         "220",
			Jersey:         "7",
			PlayerURL:      "https://example.com/p/1",
			Notes:          "notes",
			GamesWatched:   "vs OSU",
			Grade:          "Poker Chip - Blue",
			GradeSecondary: "Early-Round 2",
			Stats:          map[string]any{"yds": 3200},
			Scouted:        true,
		}, expected: 16},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if a := tc.p.CompletenessScore(); a != tc.expected {
				t.Errorf("expected: %d, got %d", tc.expected, a)
			}
		})
	}
}

func TestComparePlayersByRank(t *testing.T) {
	one, two := 1, 2
	tests := map[string]struct {
		a, b     Player
		expected int
	}{
		"lower rank first":     {a: Player{Name: "B", Rank: &one}, b: Player{Name: "A", Rank: &two}, expected: -1},
		"unranked last":        {a: Player{Name: "A"}, b: Player{Name: "B", Rank: &two}, expected: 1},
		"same rank uses name":  {a: Player{Name: "A", Rank: &one}, b: Player{Name: "B", Rank: &one}, expected: -1},
		"both unranked":        {a: Player{Name: "B"}, b: Player{Name: "A"}, expected: 1},
		"identical":            {a: Player{Name: "A", Rank: &one}, b: Player{Name: "A", Rank: &one}, expected: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if a := ComparePlayersByRank(&tc.a, &tc.b); a != tc.expected {
				t.Errorf("expected: %d, got %d", tc.expected, a)
			}
		})
	}
}

func TestPlayerFilter(t *testing.T) {
	five, fifty := 5, 50
	qb := &Player{Name: "Arch Manning", Position: "QB", School: "Texas", Rank: &five}
	edge := &Player{Name: "Rueben Bain", Position: "EDGE/DL", School: "Miami", Rank: &fifty, Scouted: true}
	unranked := &Player{Name: "LT Overton", Position: "DL", School: "Alabama"}

	tests := map[string]struct {
		f        PlayerFilter
		p        *Player
		expected bool
	}{
		"zero value":                 {f: PlayerFilter{}, p: qb, expected: true},
		"zero value skips scouted":   {f: PlayerFilter{}, p: edge, expected: false},
		"include scouted":            {f: PlayerFilter{IncludeScouted: true}, p: edge, expected: true},
		"position match":             {f: PlayerFilter{Positions: []string{"qb"}}, p: qb, expected: true},
		"position mismatch":          {f: PlayerFilter{Positions: []string{"WR", "TE"}}, p: qb, expected: false},
		"secondary position matches": {f: PlayerFilter{Positions: []string{"DL"}, IncludeScouted: true}, p: edge, expected: true},
		"max rank":                   {f: PlayerFilter{MaxRank: 10}, p: qb, expected: true},
		"max rank excludes":          {f: PlayerFilter{MaxRank: 4}, p: qb, expected: false},
		"max rank excludes unranked": {f: PlayerFilter{MaxRank: 400}, p: unranked, expected: false},
		"search name":                {f: PlayerFilter{Search: "manning"}, p: qb, expected: true},
		"search school":              {f: PlayerFilter{Search: "bama"}, p: unranked, expected: true},
		"search mismatch":            {f: PlayerFilter{Search: "ohio"}, p: qb, expected: false},
		"school":                     {f: PlayerFilter{School: "Texas"}, p: qb, expected: true},
		"school is exact":            {f: PlayerFilter{School: "texas"}, p: qb, expected: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if a := tc.f.Matches(tc.p); a != tc.expected {
				t.Errorf("expected: %v, got %v", tc.expected, a)
			}
		})
	}
}
