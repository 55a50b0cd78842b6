package model

import (
	"math"
	"time"
)

// SourceKind describes where a rank board came from.
type SourceKind string

const (
	SourceTankathon SourceKind = "tankathon"
	SourceConsensus SourceKind = "consensus"
	SourceImported  SourceKind = "imported"
)

// Keys of the built-in rank boards. They can never be removed.
const (
	BoardKeyTankathon = "tankathon"
	BoardKeyConsensus = "consensus"
)

// IsCoreBoard reports whether key names one of the built-in boards.
func IsCoreBoard(key string) bool {
	return key == BoardKeyTankathon || key == BoardKeyConsensus
}

// RankBoard is one external ranking of the prospects.
type RankBoard struct {
	ID        int64
	Key       string
	Name      string
	Source    SourceKind
	SourceURL string
	Weight    float64
	Primary   bool
	Updated   time.Time
	// PlayerCount is filled in when boards are listed.
	PlayerCount int
}

// BoardRank is the rank of a single player on a single board.
type BoardRank struct {
	PlayerID int64
	BoardID  int64
	Rank     float64
}

// RankEntry is a single line of a ranking coming from an importer. Only Name and
// Rank are required, the rest are hints used when a new player is created.
type RankEntry struct {
	Rank      float64
	Name      string
	Position  string
	School    string
	Height    string
	Weight    string
	Jersey    string
	PlayerURL string
	Stats     map[string]any
}

// HasRank is false for the entries whose rank is missing.
func (e *RankEntry) HasRank() bool {
	return e.Rank > 0 && !math.IsNaN(e.Rank) && !math.IsInf(e.Rank, 0)
}

// RankUpdate holds the derived rank values of one player after a recalculation.
type RankUpdate struct {
	PlayerID       int64
	Rank           *int
	WeightedRank   *float64
	PositionalRank string
}

// BoardImport describes one board worth of ranks to store.
type BoardImport struct {
	Key       string
	Name      string
	Source    SourceKind
	SourceURL string
	// Weight is the board weight to store. nil keeps the existing weight, or 1.0
	// for a board that does not exist yet.
	Weight *float64
	// Primary makes this board the primary board.
	Primary bool
	Entries []RankEntry
}

// ImportResult counts what happened to the entries of an import.
type ImportResult struct {
	BoardKey string
	Matched  int
	Created  int
	Skipped  int
}

// WeightingMode controls the weights given to external boards.
type WeightingMode string

const (
	WeightingEqual    WeightingMode = "equal"
	WeightingWeighted WeightingMode = "weighted"
)

// ExternalBoard is a board pasted or uploaded by the user. Entries is used as is
// when present, otherwise CSV is parsed when set, otherwise Text.
type ExternalBoard struct {
	Name      string
	SourceURL string
	Text      string
	CSV       string
	Entries   []RankEntry
	Weight    float64
}

// ExternalImportResult summarizes an import of several external boards.
type ExternalImportResult struct {
	BoardsProcessed int
	BoardsSkipped   int
	Boards          []ImportResult
}

// WeightUpdate changes the settings of one board.
type WeightUpdate struct {
	Key     string
	Weight  float64
	Primary bool
}

// MergeResult counts the work done merging duplicate players.
type MergeResult struct {
	GroupsMerged   int
	PlayersRemoved int
}
