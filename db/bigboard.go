package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mww/draft_scout/model"
)

func (t *sqlTx) GetOrCreateList(ctx context.Context, id model.ListID) (*model.BigBoard, error) {
	const insert = `INSERT INTO big_boards (board_type, position) VALUES (@kind, @scope)
		ON CONFLICT (board_type, position) DO NOTHING`
	const query = `SELECT id, board_type, position FROM big_boards
		WHERE board_type=@kind AND position=@scope`

	args := pgx.NamedArgs{
		"kind":  string(id.Kind),
		"scope": id.Scope,
	}
	if _, err := t.q.exec(ctx, insert, args); err != nil {
		return nil, fmt.Errorf("error creating big board %s: %w", id, err)
	}

	b, err := scanList(t.q.queryRow(ctx, query, args))
	if err != nil {
		return nil, fmt.Errorf("error scanning big board %s: %w", id, err)
	}
	return &b, nil
}

func (t *sqlTx) ListLists(ctx context.Context) ([]model.BigBoard, error) {
	const query = `SELECT id, board_type, position FROM big_boards ORDER BY id`

	r, err := t.q.query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing big boards: %w", err)
	}
	lists, err := collect(r, scanList)
	if err != nil {
		return nil, fmt.Errorf("error scanning big boards: %w", err)
	}
	return lists, nil
}

func (t *sqlTx) ListEntries(ctx context.Context, listID int64) ([]model.BigBoardEntry, error) {
	query := `SELECT e.position, ` + playerColumns + `
		FROM big_board_players e JOIN players p ON p.id = e.player_id
		WHERE e.big_board_id=@listID
		ORDER BY e.position, p.id`

	args := pgx.NamedArgs{
		"listID": listID,
	}
	r, err := t.q.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error listing entries of big board %d: %w", listID, err)
	}
	entries, err := collect(r, func(row rowScanner) (model.BigBoardEntry, error) {
		var e model.BigBoardEntry
		p, err := scanPlayer(&prefixScanner{row: row, prefix: []any{&e.Position}})
		if err != nil {
			return e, err
		}
		e.Player = *p
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning entries of big board %d: %w", listID, err)
	}
	return entries, nil
}

func (t *sqlTx) InsertEntry(ctx context.Context, listID, playerID int64, position int) error {
	const insert = `INSERT INTO big_board_players (big_board_id, player_id, position)
		VALUES (@listID, @playerID, @position)`

	args := pgx.NamedArgs{
		"listID":   listID,
		"playerID": playerID,
		"position": position,
	}
	if _, err := t.q.exec(ctx, insert, args); err != nil {
		if t.q.isUniqueViolation(err) {
			return fmt.Errorf("error adding player %d to big board %d: %w", playerID, listID, model.ErrDuplicate)
		}
		return fmt.Errorf("error adding player %d to big board %d: %w", playerID, listID, err)
	}
	return nil
}

func (t *sqlTx) DeleteEntry(ctx context.Context, listID, playerID int64) error {
	const del = `DELETE FROM big_board_players WHERE big_board_id=@listID AND player_id=@playerID`

	args := pgx.NamedArgs{
		"listID":   listID,
		"playerID": playerID,
	}
	n, err := t.q.exec(ctx, del, args)
	if err != nil {
		return fmt.Errorf("error removing player %d from big board %d: %w", playerID, listID, err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (t *sqlTx) MoveEntry(ctx context.Context, listID, fromPlayerID, toPlayerID int64) error {
	const update = `UPDATE big_board_players SET player_id=@toPlayerID
		WHERE big_board_id=@listID AND player_id=@fromPlayerID`

	args := pgx.NamedArgs{
		"listID":       listID,
		"fromPlayerID": fromPlayerID,
		"toPlayerID":   toPlayerID,
	}
	n, err := t.q.exec(ctx, update, args)
	if err != nil {
		return fmt.Errorf("error moving big board %d entry from player %d to %d: %w", listID, fromPlayerID, toPlayerID, err)
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (t *sqlTx) SetEntryPositions(ctx context.Context, listID int64, playerIDs []int64) error {
	const update = `UPDATE big_board_players SET position=@position
		WHERE big_board_id=@listID AND player_id=@playerID`

	for i, id := range playerIDs {
		args := pgx.NamedArgs{
			"listID":   listID,
			"playerID": id,
			"position": i + 1,
		}
		n, err := t.q.exec(ctx, update, args)
		if err != nil {
			return fmt.Errorf("error setting position of player %d on big board %d: %w", id, listID, err)
		}
		if n == 0 {
			return ErrEntryNotFound
		}
	}
	return nil
}

func (t *sqlTx) ListsForPlayer(ctx context.Context, playerID int64) ([]int64, error) {
	const query = `SELECT big_board_id FROM big_board_players WHERE player_id=@playerID ORDER BY big_board_id`

	args := pgx.NamedArgs{
		"playerID": playerID,
	}
	r, err := t.q.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error listing big boards of player %d: %w", playerID, err)
	}
	ids, err := collect(r, func(row rowScanner) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning big boards of player %d: %w", playerID, err)
	}
	return ids, nil
}

func scanList(row rowScanner) (model.BigBoard, error) {
	var b model.BigBoard
	var kind string
	err := row.Scan(&b.ID, &kind, &b.Scope)
	b.Kind = model.ListKind(kind)
	return b, err
}

// prefixScanner scans the leading columns of a row into prefix before handing the
// rest to the caller's destinations.
type prefixScanner struct {
	row    rowScanner
	prefix []any
}

func (s *prefixScanner) Scan(dest ...any) error {
	return s.row.Scan(append(s.prefix, dest...)...)
}
