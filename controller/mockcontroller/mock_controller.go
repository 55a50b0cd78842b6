package mockcontroller

import (
	"context"

	"github.com/mww/draft_scout/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	args := c.Called(ctx, id)
	return player(args), args.Error(1)
}

func (c *C) AddPlayer(ctx context.Context, np model.NewPlayer) (*model.Player, error) {
	args := c.Called(ctx, np)
	return player(args), args.Error(1)
}

func (c *C) UpdateProfile(ctx context.Context, id int64, u model.ProfileUpdate) (*model.Player, error) {
	args := c.Called(ctx, id, u)
	return player(args), args.Error(1)
}

func (c *C) UpdateNotes(ctx context.Context, id int64, notes string) error {
	args := c.Called(ctx, id, notes)
	return args.Error(0)
}

func (c *C) UpdateGamesWatched(ctx context.Context, id int64, gamesWatched string) error {
	args := c.Called(ctx, id, gamesWatched)
	return args.Error(0)
}

func (c *C) UpdateGrade(ctx context.Context, id int64, grade string, slot model.GradeSlot) error {
	args := c.Called(ctx, id, grade, slot)
	return args.Error(0)
}

func (c *C) MarkScouted(ctx context.Context, id int64) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) UnmarkScouted(ctx context.Context, id int64) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) SearchPlayers(ctx context.Context, f model.PlayerFilter) ([]model.Player, error) {
	args := c.Called(ctx, f)

	var res []model.Player
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Player)
	}

	return res, args.Error(1)
}

func (c *C) RandomPlayer(ctx context.Context, f model.PlayerFilter) (*model.Player, error) {
	args := c.Called(ctx, f)
	return player(args), args.Error(1)
}

func (c *C) Positions(ctx context.Context) ([]string, error) {
	args := c.Called(ctx)
	return strs(args), args.Error(1)
}

func (c *C) Schools(ctx context.Context) ([]string, error) {
	args := c.Called(ctx)
	return strs(args), args.Error(1)
}

func (c *C) Stats(ctx context.Context) (*model.CatalogStats, error) {
	args := c.Called(ctx)

	var s *model.CatalogStats
	if args.Get(0) != nil {
		s = args.Get(0).(*model.CatalogStats)
	}

	return s, args.Error(1)
}

func (c *C) MergeDuplicates(ctx context.Context) (*model.MergeResult, error) {
	args := c.Called(ctx)

	var r *model.MergeResult
	if args.Get(0) != nil {
		r = args.Get(0).(*model.MergeResult)
	}

	return r, args.Error(1)
}

func (c *C) ListBoards(ctx context.Context) ([]model.RankBoard, error) {
	args := c.Called(ctx)

	var res []model.RankBoard
	if args.Get(0) != nil {
		res = args.Get(0).([]model.RankBoard)
	}

	return res, args.Error(1)
}

func (c *C) SetWeights(ctx context.Context, updates []model.WeightUpdate) error {
	args := c.Called(ctx, updates)
	return args.Error(0)
}

func (c *C) RemoveBoard(ctx context.Context, key string) error {
	args := c.Called(ctx, key)
	return args.Error(0)
}

func (c *C) ImportBoard(ctx context.Context, imp model.BoardImport) (*model.ImportResult, error) {
	args := c.Called(ctx, imp)
	return importResult(args), args.Error(1)
}

func (c *C) ImportTankathonBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error) {
	args := c.Called(ctx, entries)
	return importResult(args), args.Error(1)
}

func (c *C) ImportConsensusBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error) {
	args := c.Called(ctx, entries)
	return importResult(args), args.Error(1)
}

func (c *C) ImportExternalBoards(ctx context.Context, boards []model.ExternalBoard, mode model.WeightingMode) (*model.ExternalImportResult, error) {
	args := c.Called(ctx, boards, mode)

	var r *model.ExternalImportResult
	if args.Get(0) != nil {
		r = args.Get(0).(*model.ExternalImportResult)
	}

	return r, args.Error(1)
}

func (c *C) RecalculateRanks(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

func (c *C) GetBigBoard(ctx context.Context, id model.ListID) ([]model.BigBoardEntry, error) {
	args := c.Called(ctx, id)

	var res []model.BigBoardEntry
	if args.Get(0) != nil {
		res = args.Get(0).([]model.BigBoardEntry)
	}

	return res, args.Error(1)
}

func (c *C) AddToBigBoard(ctx context.Context, id model.ListID, playerID int64) error {
	args := c.Called(ctx, id, playerID)
	return args.Error(0)
}

func (c *C) ReorderBigBoard(ctx context.Context, id model.ListID, playerIDs []int64) error {
	args := c.Called(ctx, id, playerIDs)
	return args.Error(0)
}

func (c *C) RemoveFromBigBoard(ctx context.Context, id model.ListID, playerID int64) error {
	args := c.Called(ctx, id, playerID)
	return args.Error(0)
}

func (c *C) AutoSortBigBoard(ctx context.Context, id model.ListID) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) ExportBigBoard(ctx context.Context, id model.ListID) (string, error) {
	args := c.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func player(args mock.Arguments) *model.Player {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.Player)
}

func importResult(args mock.Arguments) *model.ImportResult {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.ImportResult)
}

func strs(args mock.Arguments) []string {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
