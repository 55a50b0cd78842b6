package db

import (
	"context"
	"fmt"

	"github.com/mww/draft_scout/model"
)

// DB is the storage used by the controller. All reads and writes go through a Tx
// so that every operation either applies completely or not at all.
type DB interface {
	// InTx runs fn inside a transaction. The transaction is committed when fn
	// returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close()
}

type Tx interface {
	GetPlayer(ctx context.Context, id int64) (*model.Player, error)
	// GetPlayerByName does an exact, case sensitive, name lookup.
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	// ListPlayers returns every player ordered by id.
	ListPlayers(ctx context.Context) ([]model.Player, error)
	// InsertPlayer stores a new player and sets its ID and Created time.
	InsertPlayer(ctx context.Context, p *model.Player) error
	// UpdatePlayer saves every stored field of the player and sets its Updated time.
	UpdatePlayer(ctx context.Context, p *model.Player) error
	// DeletePlayer removes the player along with its board ranks and list entries.
	DeletePlayer(ctx context.Context, id int64) error
	// SaveRanks writes the derived rank values of players.
	SaveRanks(ctx context.Context, updates []model.RankUpdate) error

	GetBoard(ctx context.Context, key string) (*model.RankBoard, error)
	// ListBoards returns every rank board with its player count, in no particular order.
	ListBoards(ctx context.Context) ([]model.RankBoard, error)
	// SaveBoard inserts or updates the board with the same key and sets its ID.
	SaveBoard(ctx context.Context, b *model.RankBoard) error
	// DeleteBoard removes the board along with all of its ranks.
	DeleteBoard(ctx context.Context, id int64) error
	ClearPrimaryBoard(ctx context.Context) error

	ListBoardRanks(ctx context.Context) ([]model.BoardRank, error)
	ListBoardRanksForPlayer(ctx context.Context, playerID int64) ([]model.BoardRank, error)
	// ReplaceBoardRanks drops every rank of the board and stores ranks instead.
	ReplaceBoardRanks(ctx context.Context, boardID int64, ranks []model.BoardRank) error
	SaveBoardRank(ctx context.Context, r model.BoardRank) error
	DeleteBoardRank(ctx context.Context, playerID, boardID int64) error

	// GetOrCreateList returns the stored curated list, creating it on first use.
	// The id must already be valid.
	GetOrCreateList(ctx context.Context, id model.ListID) (*model.BigBoard, error)
	ListLists(ctx context.Context) ([]model.BigBoard, error)
	// ListEntries returns the members of a list ordered by position.
	ListEntries(ctx context.Context, listID int64) ([]model.BigBoardEntry, error)
	InsertEntry(ctx context.Context, listID, playerID int64, position int) error
	DeleteEntry(ctx context.Context, listID, playerID int64) error
	// MoveEntry gives the list entry of one player to another player, keeping its position.
	MoveEntry(ctx context.Context, listID, fromPlayerID, toPlayerID int64) error
	// SetEntryPositions numbers the given members 1..N in the given order.
	SetEntryPositions(ctx context.Context, listID int64, playerIDs []int64) error
	// ListsForPlayer returns the ids of the lists the player is a member of.
	ListsForPlayer(ctx context.Context, playerID int64) ([]int64, error)
}

var (
	ErrPlayerNotFound = fmt.Errorf("player %w", model.ErrNotFound)
	ErrBoardNotFound  = fmt.Errorf("rank board %w", model.ErrNotFound)
	ErrEntryNotFound  = fmt.Errorf("big board entry %w", model.ErrNotFound)
	ErrDuplicateName  = fmt.Errorf("player name %w", model.ErrDuplicate)
)
