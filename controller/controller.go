package controller

import (
	"context"
	"sync"

	"github.com/itbasis/go-clock"
	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/metrics"
	"github.com/mww/draft_scout/model"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	GetPlayer(ctx context.Context, id int64) (*model.Player, error)
	// AddPlayer adds a player by hand. A rank given for the player is used as its fallback rank.
	AddPlayer(ctx context.Context, np model.NewPlayer) (*model.Player, error)
	UpdateProfile(ctx context.Context, id int64, u model.ProfileUpdate) (*model.Player, error)
	UpdateNotes(ctx context.Context, id int64, notes string) error
	UpdateGamesWatched(ctx context.Context, id int64, gamesWatched string) error
	UpdateGrade(ctx context.Context, id int64, grade string, slot model.GradeSlot) error
	// MarkScouted also removes the player from the watch list.
	MarkScouted(ctx context.Context, id int64) error
	UnmarkScouted(ctx context.Context, id int64) error
	SearchPlayers(ctx context.Context, f model.PlayerFilter) ([]model.Player, error)
	// RandomPlayer picks one of the unscouted players matching the filter.
	RandomPlayer(ctx context.Context, f model.PlayerFilter) (*model.Player, error)
	Positions(ctx context.Context) ([]string, error)
	Schools(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*model.CatalogStats, error)
	// MergeDuplicates folds players whose names normalize to the same key into one player.
	MergeDuplicates(ctx context.Context) (*model.MergeResult, error)

	ListBoards(ctx context.Context) ([]model.RankBoard, error)
	SetWeights(ctx context.Context, updates []model.WeightUpdate) error
	// RemoveBoard removes an imported board. The built-in boards can not be removed.
	RemoveBoard(ctx context.Context, key string) error
	ImportBoard(ctx context.Context, imp model.BoardImport) (*model.ImportResult, error)
	ImportTankathonBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error)
	ImportConsensusBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error)
	ImportExternalBoards(ctx context.Context, boards []model.ExternalBoard, mode model.WeightingMode) (*model.ExternalImportResult, error)
	RecalculateRanks(ctx context.Context) error

	GetBigBoard(ctx context.Context, id model.ListID) ([]model.BigBoardEntry, error)
	AddToBigBoard(ctx context.Context, id model.ListID, playerID int64) error
	// ReorderBigBoard takes every member of the list in the new order.
	ReorderBigBoard(ctx context.Context, id model.ListID, playerIDs []int64) error
	RemoveFromBigBoard(ctx context.Context, id model.ListID, playerID int64) error
	AutoSortBigBoard(ctx context.Context, id model.ListID) error
	// ExportBigBoard renders the list as "<position>. <name>" lines.
	ExportBigBoard(ctx context.Context, id model.ListID) (string, error)
}

type controller struct {
	// mu serializes every operation, each of them runs in a single transaction.
	mu      sync.Mutex
	clock   clock.Clock
	db      db.DB
	metrics *metrics.Metrics
}

// New creates the controller. m may be nil.
func New(clock clock.Clock, db db.DB, m *metrics.Metrics) (C, error) {
	c := &controller{
		clock:   clock,
		db:      db,
		metrics: m,
	}
	return c, nil
}

func (c *controller) inTx(ctx context.Context, fn func(tx db.Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.InTx(ctx, fn)
}
