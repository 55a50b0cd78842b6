package model

import (
	"fmt"
)

// ListKind is the type of a curated big board.
type ListKind string

const (
	ListOverall   ListKind = "overall"
	ListPosition  ListKind = "position"
	ListWatchlist ListKind = "watchlist"
)

// ListID identifies a curated list. Scope is only used by positional boards.
type ListID struct {
	Kind  ListKind
	Scope string
}

var (
	OverallBoard = ListID{Kind: ListOverall}
	Watchlist    = ListID{Kind: ListWatchlist}
)

// PositionBoard returns the id of the positional big board for pos.
func PositionBoard(pos string) ListID {
	return ListID{Kind: ListPosition, Scope: ParsePosition(pos)}
}

// Validate checks the id and returns it in its canonical form.
func (id ListID) Validate() (ListID, error) {
	switch id.Kind {
	case ListOverall, ListWatchlist:
		if id.Scope != "" {
			return id, fmt.Errorf("%w: %s boards do not take a position", ErrValidation, id.Kind)
		}
		return id, nil
	case ListPosition:
		scope := ParsePosition(id.Scope)
		if scope == "" {
			return id, fmt.Errorf("%w: a position board needs a position", ErrValidation)
		}
		return ListID{Kind: ListPosition, Scope: scope}, nil
	default:
		return id, fmt.Errorf("%w: unknown board type '%s'", ErrValidation, id.Kind)
	}
}

func (id ListID) String() string {
	if id.Scope == "" {
		return string(id.Kind)
	}
	return fmt.Sprintf("%s:%s", id.Kind, id.Scope)
}

// BigBoard is a stored curated list.
type BigBoard struct {
	ID    int64
	Kind  ListKind
	Scope string
}

func (b *BigBoard) ListID() ListID {
	return ListID{Kind: b.Kind, Scope: b.Scope}
}

// BigBoardEntry is one member of a curated list at its position.
type BigBoardEntry struct {
	Position int
	Player   Player
	// ConsensusRank is only set on the overall board.
	ConsensusRank *float64
}
