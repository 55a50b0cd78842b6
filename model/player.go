package model

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Player is a draft prospect. Name is the unique key for a player in storage.
type Player struct {
	ID   int64
	Name string
	// Rank is the effective rank shown to the user. It is derived from the rank
	// boards every time ranks are recalculated.
	Rank *int
	// TankathonRank is the fallback rank used when no rank board ranks the player.
	TankathonRank *int
	// WeightedRank is the weighted average across all boards, derived.
	WeightedRank   *float64
	Position       string
	PositionalRank string
	School         string
	Height         string
	Weight         string
	Jersey         string
	PlayerURL      string
	Notes          string
	GamesWatched   string
	Grade          string
	GradeSecondary string
	Stats          map[string]any
	Scouted        bool
	ScoutDate      time.Time
	Created        time.Time
	Updated        time.Time
}

func (p *Player) FormattedScoutDate() string {
	if p.ScoutDate.IsZero() {
		return "never"
	}
	return p.ScoutDate.Format(time.DateTime)
}

func (p *Player) FormattedRank() string {
	if p.Rank == nil {
		return "NR"
	}
	return fmt.Sprintf("%d", *p.Rank)
}

// RankOr returns the effective rank or def when the player is unranked.
func (p *Player) RankOr(def int) int {
	if p.Rank == nil {
		return def
	}
	return *p.Rank
}

// CompletenessScore measures how much we know about a player. It is used to
// pick which record survives when duplicate players are merged.
func (p *Player) CompletenessScore() int {
	score := 0
	if p.Scouted {
		score += 5
	}
	fields := []string{
		p.Position,
		p.School,
		p.Height,
		p.Weight,
		p.Jersey,
		p.PlayerURL,
		p.Notes,
		p.GamesWatched,
		p.Grade,
		p.GradeSecondary,
	}
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			score++
		}
	}
	if len(p.Stats) > 0 {
		score++
	}
	return score
}

// ComparePlayersByRank orders players by effective rank, unranked players
// last, then by name.
func ComparePlayersByRank(a, b *Player) int {
	switch {
	case a.Rank != nil && b.Rank == nil:
		return -1
	case a.Rank == nil && b.Rank != nil:
		return 1
	case a.Rank != nil && b.Rank != nil && *a.Rank != *b.Rank:
		return cmp.Compare(*a.Rank, *b.Rank)
	}
	return strings.Compare(a.Name, b.Name)
}

// PlayerFilter selects players from the catalog. The zero value matches every
// player that has not been scouted.
type PlayerFilter struct {
	// Positions matches players listing any of these positions.
	Positions []string
	// MaxRank excludes players ranked worse than this or unranked. 0 disables it.
	MaxRank        int
	IncludeScouted bool
	// Search matches the name or the school, case insensitive.
	Search string
	// School matches the school exactly.
	School string
}

func (f *PlayerFilter) Matches(p *Player) bool {
	if !f.IncludeScouted && p.Scouted {
		return false
	}

	if len(f.Positions) > 0 {
		pos := strings.ToUpper(p.Position)
		found := false
		for _, want := range f.Positions {
			want = strings.ToUpper(strings.TrimSpace(want))
			if want != "" && strings.Contains(pos, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MaxRank > 0 && (p.Rank == nil || *p.Rank > f.MaxRank) {
		return false
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.School), q) {
			return false
		}
	}

	if f.School != "" && p.School != f.School {
		return false
	}

	return true
}

// CatalogStats summarizes how much of the catalog has been scouted.
type CatalogStats struct {
	Total     int
	Scouted   int
	Remaining int
}

// NewPlayer holds the fields of a manually added player.
type NewPlayer struct {
	Name      string
	Rank      *int
	Position  string
	School    string
	Height    string
	Weight    string
	Jersey    string
	PlayerURL string
	Notes     string
	Grade     string
	Scouted   bool
}

// ProfileUpdate lists the profile fields to change, nil fields are left alone.
// Stats must be a flat object of scalar values.
type ProfileUpdate struct {
	Name      *string
	Position  *string
	School    *string
	Height    *string
	Weight    *string
	Jersey    *string
	PlayerURL *string
	Stats     any
}

// GradeSlot selects which of a player's two grades is updated.
type GradeSlot string

const (
	GradePrimary   GradeSlot = "primary"
	GradeSecondary GradeSlot = "secondary"
)
