package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mww/draft_scout/model"
)

const boardColumns = `b.id, b.board_key, b.board_name, b.source_type, b.source_url,
		b.weight, b.is_primary, b.updated`

func (t *sqlTx) GetBoard(ctx context.Context, key string) (*model.RankBoard, error) {
	query := `SELECT ` + boardColumns + `, 0 FROM rank_boards b WHERE b.board_key=@key`

	args := pgx.NamedArgs{
		"key": key,
	}
	b, err := scanBoard(t.q.queryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("error scanning rank board '%s': %w", key, err)
	}
	return b, nil
}

func (t *sqlTx) ListBoards(ctx context.Context) ([]model.RankBoard, error) {
	query := `SELECT ` + boardColumns + `, COUNT(r.player_id)
		FROM rank_boards b LEFT JOIN player_board_ranks r ON r.board_id = b.id
		GROUP BY b.id, b.board_key, b.board_name, b.source_type, b.source_url,
			b.weight, b.is_primary, b.updated`

	r, err := t.q.query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing rank boards: %w", err)
	}
	boards, err := collect(r, func(row rowScanner) (model.RankBoard, error) {
		b, err := scanBoard(row)
		if err != nil {
			return model.RankBoard{}, err
		}
		return *b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning rank boards: %w", err)
	}
	return boards, nil
}

func (t *sqlTx) SaveBoard(ctx context.Context, b *model.RankBoard) error {
	const upsert = `INSERT INTO rank_boards (
			board_key, board_name, source_type, source_url, weight, is_primary, updated
		) VALUES (
			@key, @name, @source, @sourceURL, @weight, @primary, @updated
		) ON CONFLICT (board_key) DO UPDATE SET
			board_name=excluded.board_name,
			source_type=excluded.source_type,
			source_url=excluded.source_url,
			weight=excluded.weight,
			is_primary=excluded.is_primary,
			updated=excluded.updated
		RETURNING id`

	updated := t.clock.Now().UTC()
	args := pgx.NamedArgs{
		"key":       b.Key,
		"name":      b.Name,
		"source":    string(b.Source),
		"sourceURL": b.SourceURL,
		"weight":    b.Weight,
		"primary":   b.Primary,
		"updated":   toMillis(updated),
	}

	var id int64
	if err := t.q.queryRow(ctx, upsert, args).Scan(&id); err != nil {
		return fmt.Errorf("error saving rank board '%s': %w", b.Key, err)
	}

	b.ID = id
	b.Updated = updated.Truncate(time.Millisecond)
	return nil
}

func (t *sqlTx) DeleteBoard(ctx context.Context, id int64) error {
	args := pgx.NamedArgs{
		"id": id,
	}

	if _, err := t.q.exec(ctx, `DELETE FROM player_board_ranks WHERE board_id=@id`, args); err != nil {
		return fmt.Errorf("error deleting ranks of board %d: %w", id, err)
	}
	n, err := t.q.exec(ctx, `DELETE FROM rank_boards WHERE id=@id`, args)
	if err != nil {
		return fmt.Errorf("error deleting rank board %d: %w", id, err)
	}
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (t *sqlTx) ClearPrimaryBoard(ctx context.Context) error {
	args := pgx.NamedArgs{
		"primary": true,
		"cleared": false,
	}
	if _, err := t.q.exec(ctx, `UPDATE rank_boards SET is_primary=@cleared WHERE is_primary=@primary`, args); err != nil {
		return fmt.Errorf("error clearing primary board: %w", err)
	}
	return nil
}

func (t *sqlTx) ListBoardRanks(ctx context.Context) ([]model.BoardRank, error) {
	const query = `SELECT player_id, board_id, rank FROM player_board_ranks`

	r, err := t.q.query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing board ranks: %w", err)
	}
	ranks, err := collect(r, scanBoardRank)
	if err != nil {
		return nil, fmt.Errorf("error scanning board ranks: %w", err)
	}
	return ranks, nil
}

func (t *sqlTx) ListBoardRanksForPlayer(ctx context.Context, playerID int64) ([]model.BoardRank, error) {
	const query = `SELECT player_id, board_id, rank FROM player_board_ranks WHERE player_id=@playerID`

	args := pgx.NamedArgs{
		"playerID": playerID,
	}
	r, err := t.q.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error listing board ranks of player %d: %w", playerID, err)
	}
	ranks, err := collect(r, scanBoardRank)
	if err != nil {
		return nil, fmt.Errorf("error scanning board ranks of player %d: %w", playerID, err)
	}
	return ranks, nil
}

func (t *sqlTx) ReplaceBoardRanks(ctx context.Context, boardID int64, ranks []model.BoardRank) error {
	const insert = `INSERT INTO player_board_ranks (player_id, board_id, rank)
		VALUES (@playerID, @boardID, @rank)`

	args := pgx.NamedArgs{
		"boardID": boardID,
	}
	if _, err := t.q.exec(ctx, `DELETE FROM player_board_ranks WHERE board_id=@boardID`, args); err != nil {
		return fmt.Errorf("error clearing ranks of board %d: %w", boardID, err)
	}

	for _, r := range ranks {
		args := pgx.NamedArgs{
			"playerID": r.PlayerID,
			"boardID":  boardID,
			"rank":     r.Rank,
		}
		if _, err := t.q.exec(ctx, insert, args); err != nil {
			return fmt.Errorf("error inserting rank of player %d on board %d: %w", r.PlayerID, boardID, err)
		}
	}
	return nil
}

func (t *sqlTx) SaveBoardRank(ctx context.Context, r model.BoardRank) error {
	const upsert = `INSERT INTO player_board_ranks (player_id, board_id, rank)
		VALUES (@playerID, @boardID, @rank)
		ON CONFLICT (player_id, board_id) DO UPDATE SET rank=excluded.rank`

	args := pgx.NamedArgs{
		"playerID": r.PlayerID,
		"boardID":  r.BoardID,
		"rank":     r.Rank,
	}
	if _, err := t.q.exec(ctx, upsert, args); err != nil {
		return fmt.Errorf("error saving rank of player %d on board %d: %w", r.PlayerID, r.BoardID, err)
	}
	return nil
}

func (t *sqlTx) DeleteBoardRank(ctx context.Context, playerID, boardID int64) error {
	const del = `DELETE FROM player_board_ranks WHERE player_id=@playerID AND board_id=@boardID`

	args := pgx.NamedArgs{
		"playerID": playerID,
		"boardID":  boardID,
	}
	if _, err := t.q.exec(ctx, del, args); err != nil {
		return fmt.Errorf("error deleting rank of player %d on board %d: %w", playerID, boardID, err)
	}
	return nil
}

// scanBoard expects the board columns followed by the player count.
func scanBoard(row rowScanner) (*model.RankBoard, error) {
	var result model.RankBoard
	var source string
	var updated sql.NullInt64
	err := row.Scan(
		&result.ID,
		&result.Key,
		&result.Name,
		&source,
		&result.SourceURL,
		&result.Weight,
		&result.Primary,
		&updated,
		&result.PlayerCount)

	if err != nil {
		return nil, err
	}

	result.Source = model.SourceKind(source)
	result.Updated = fromMillis(updated)
	return &result, nil
}

func scanBoardRank(row rowScanner) (model.BoardRank, error) {
	var r model.BoardRank
	err := row.Scan(&r.PlayerID, &r.BoardID, &r.Rank)
	return r, err
}
