package mockdb

import (
	"context"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
	"github.com/stretchr/testify/mock"
)

// DB is a mock db.DB. InTx fails with the error set up for it, otherwise it runs
// the function with Tx.
type DB struct {
	mock.Mock
	Tx *Tx
}

func New() *DB {
	return &DB{Tx: &Tx{}}
}

func (d *DB) InTx(ctx context.Context, fn func(tx db.Tx) error) error {
	args := d.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(d.Tx)
}

func (d *DB) Close() {
	d.Called()
}

type Tx struct {
	mock.Mock
}

func (t *Tx) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	args := t.Called(ctx, id)

	var p *model.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Player)
	}
	return p, args.Error(1)
}

func (t *Tx) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	args := t.Called(ctx, name)

	var p *model.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Player)
	}
	return p, args.Error(1)
}

func (t *Tx) ListPlayers(ctx context.Context) ([]model.Player, error) {
	args := t.Called(ctx)

	var r []model.Player
	if args.Get(0) != nil {
		r = args.Get(0).([]model.Player)
	}
	return r, args.Error(1)
}

func (t *Tx) InsertPlayer(ctx context.Context, p *model.Player) error {
	args := t.Called(ctx, p)
	return args.Error(0)
}

func (t *Tx) UpdatePlayer(ctx context.Context, p *model.Player) error {
	args := t.Called(ctx, p)
	return args.Error(0)
}

func (t *Tx) DeletePlayer(ctx context.Context, id int64) error {
	args := t.Called(ctx, id)
	return args.Error(0)
}

func (t *Tx) SaveRanks(ctx context.Context, updates []model.RankUpdate) error {
	args := t.Called(ctx, updates)
	return args.Error(0)
}

func (t *Tx) GetBoard(ctx context.Context, key string) (*model.RankBoard, error) {
	args := t.Called(ctx, key)

	var b *model.RankBoard
	if args.Get(0) != nil {
		b = args.Get(0).(*model.RankBoard)
	}
	return b, args.Error(1)
}

func (t *Tx) ListBoards(ctx context.Context) ([]model.RankBoard, error) {
	args := t.Called(ctx)

	var r []model.RankBoard
	if args.Get(0) != nil {
		r = args.Get(0).([]model.RankBoard)
	}
	return r, args.Error(1)
}

func (t *Tx) SaveBoard(ctx context.Context, b *model.RankBoard) error {
	args := t.Called(ctx, b)
	return args.Error(0)
}

func (t *Tx) DeleteBoard(ctx context.Context, id int64) error {
	args := t.Called(ctx, id)
	return args.Error(0)
}

func (t *Tx) ClearPrimaryBoard(ctx context.Context) error {
	args := t.Called(ctx)
	return args.Error(0)
}

func (t *Tx) ListBoardRanks(ctx context.Context) ([]model.BoardRank, error) {
	args := t.Called(ctx)

	var r []model.BoardRank
	if args.Get(0) != nil {
		r = args.Get(0).([]model.BoardRank)
	}
	return r, args.Error(1)
}

func (t *Tx) ListBoardRanksForPlayer(ctx context.Context, playerID int64) ([]model.BoardRank, error) {
	args := t.Called(ctx, playerID)

	var r []model.BoardRank
	if args.Get(0) != nil {
		r = args.Get(0).([]model.BoardRank)
	}
	return r, args.Error(1)
}

func (t *Tx) ReplaceBoardRanks(ctx context.Context, boardID int64, ranks []model.BoardRank) error {
	args := t.Called(ctx, boardID, ranks)
	return args.Error(0)
}

func (t *Tx) SaveBoardRank(ctx context.Context, r model.BoardRank) error {
	args := t.Called(ctx, r)
	return args.Error(0)
}

func (t *Tx) DeleteBoardRank(ctx context.Context, playerID, boardID int64) error {
	args := t.Called(ctx, playerID, boardID)
	return args.Error(0)
}

func (t *Tx) GetOrCreateList(ctx context.Context, id model.ListID) (*model.BigBoard, error) {
	args := t.Called(ctx, id)

	var b *model.BigBoard
	if args.Get(0) != nil {
		b = args.Get(0).(*model.BigBoard)
	}
	return b, args.Error(1)
}

func (t *Tx) ListLists(ctx context.Context) ([]model.BigBoard, error) {
	args := t.Called(ctx)

	var r []model.BigBoard
	if args.Get(0) != nil {
		r = args.Get(0).([]model.BigBoard)
	}
	return r, args.Error(1)
}

func (t *Tx) ListEntries(ctx context.Context, listID int64) ([]model.BigBoardEntry, error) {
	args := t.Called(ctx, listID)

	var r []model.BigBoardEntry
	if args.Get(0) != nil {
		r = args.Get(0).([]model.BigBoardEntry)
	}
	return r, args.Error(1)
}

func (t *Tx) InsertEntry(ctx context.Context, listID, playerID int64, position int) error {
	args := t.Called(ctx, listID, playerID, position)
	return args.Error(0)
}

func (t *Tx) DeleteEntry(ctx context.Context, listID, playerID int64) error {
	args := t.Called(ctx, listID, playerID)
	return args.Error(0)
}

func (t *Tx) MoveEntry(ctx context.Context, listID, fromPlayerID, toPlayerID int64) error {
	args := t.Called(ctx, listID, fromPlayerID, toPlayerID)
	return args.Error(0)
}

func (t *Tx) SetEntryPositions(ctx context.Context, listID int64, playerIDs []int64) error {
	args := t.Called(ctx, listID, playerIDs)
	return args.Error(0)
}

func (t *Tx) ListsForPlayer(ctx context.Context, playerID int64) ([]int64, error) {
	args := t.Called(ctx, playerID)

	var r []int64
	if args.Get(0) != nil {
		r = args.Get(0).([]int64)
	}
	return r, args.Error(1)
}
