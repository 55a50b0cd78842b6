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

const playerColumns = `p.id, p.name, p.rank, p.tankathon_rank, p.weighted_rank,
		p.position, p.positional_rank, p.school, p.height, p.weight, p.jersey,
		p.player_url, p.notes, p.games_watched, p.grade, p.grade_secondary,
		p.stats, p.scouted, p.scout_date, p.created, p.updated`

func (t *sqlTx) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p WHERE p.id=@id`

	args := pgx.NamedArgs{
		"id": id,
	}
	p, err := scanPlayer(t.q.queryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error scanning player %d: %w", id, err)
	}
	return p, nil
}

func (t *sqlTx) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p WHERE p.name=@name`

	args := pgx.NamedArgs{
		"name": name,
	}
	p, err := scanPlayer(t.q.queryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error scanning player '%s': %w", name, err)
	}
	return p, nil
}

func (t *sqlTx) ListPlayers(ctx context.Context) ([]model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players p ORDER BY p.id`

	r, err := t.q.query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing players: %w", err)
	}
	players, err := collect(r, func(row rowScanner) (model.Player, error) {
		p, err := scanPlayer(row)
		if err != nil {
			return model.Player{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning players: %w", err)
	}
	return players, nil
}

func (t *sqlTx) InsertPlayer(ctx context.Context, p *model.Player) error {
	const insert = `INSERT INTO players (
			name, rank, tankathon_rank, weighted_rank, position, positional_rank,
			school, height, weight, jersey, player_url, notes, games_watched,
			grade, grade_secondary, stats, scouted, scout_date, created
		) VALUES (
			@name, @rank, @tankathonRank, @weightedRank, @position, @positionalRank,
			@school, @height, @weight, @jersey, @playerURL, @notes, @gamesWatched,
			@grade, @gradeSecondary, @stats, @scouted, @scoutDate, @created
		) RETURNING id`

	created := t.clock.Now().UTC()
	args, err := namedArgsForPlayer(p)
	if err != nil {
		return err
	}
	args["created"] = toMillis(created)

	var id int64
	if err := t.q.queryRow(ctx, insert, args).Scan(&id); err != nil {
		if t.q.isUniqueViolation(err) {
			return fmt.Errorf("error inserting player '%s': %w", p.Name, ErrDuplicateName)
		}
		return fmt.Errorf("error inserting player '%s': %w", p.Name, err)
	}

	p.ID = id
	p.Created = created.Truncate(time.Millisecond)
	return nil
}

func (t *sqlTx) UpdatePlayer(ctx context.Context, p *model.Player) error {
	const update = `UPDATE players SET
			name=@name, rank=@rank, tankathon_rank=@tankathonRank,
			weighted_rank=@weightedRank, position=@position,
			positional_rank=@positionalRank, school=@school, height=@height,
			weight=@weight, jersey=@jersey, player_url=@playerURL, notes=@notes,
			games_watched=@gamesWatched, grade=@grade,
			grade_secondary=@gradeSecondary, stats=@stats, scouted=@scouted,
			scout_date=@scoutDate, updated=@updated
		WHERE id=@id`

	updated := t.clock.Now().UTC()
	args, err := namedArgsForPlayer(p)
	if err != nil {
		return err
	}
	args["id"] = p.ID
	args["updated"] = toMillis(updated)

	n, err := t.q.exec(ctx, update, args)
	if err != nil {
		if t.q.isUniqueViolation(err) {
			return fmt.Errorf("error updating player %d: %w", p.ID, ErrDuplicateName)
		}
		return fmt.Errorf("error updating player %d: %w", p.ID, err)
	}
	if n == 0 {
		return ErrPlayerNotFound
	}

	p.Updated = updated.Truncate(time.Millisecond)
	return nil
}

func (t *sqlTx) DeletePlayer(ctx context.Context, id int64) error {
	args := pgx.NamedArgs{
		"id": id,
	}

	if _, err := t.q.exec(ctx, `DELETE FROM player_board_ranks WHERE player_id=@id`, args); err != nil {
		return fmt.Errorf("error deleting board ranks of player %d: %w", id, err)
	}
	if _, err := t.q.exec(ctx, `DELETE FROM big_board_players WHERE player_id=@id`, args); err != nil {
		return fmt.Errorf("error deleting big board entries of player %d: %w", id, err)
	}
	n, err := t.q.exec(ctx, `DELETE FROM players WHERE id=@id`, args)
	if err != nil {
		return fmt.Errorf("error deleting player %d: %w", id, err)
	}
	if n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (t *sqlTx) SaveRanks(ctx context.Context, updates []model.RankUpdate) error {
	const update = `UPDATE players SET rank=@rank, weighted_rank=@weightedRank,
			positional_rank=@positionalRank
		WHERE id=@id`

	for _, u := range updates {
		args := pgx.NamedArgs{
			"id":             u.PlayerID,
			"rank":           intOrNull(u.Rank),
			"weightedRank":   floatOrNull(u.WeightedRank),
			"positionalRank": u.PositionalRank,
		}
		if _, err := t.q.exec(ctx, update, args); err != nil {
			return fmt.Errorf("error saving ranks of player %d: %w", u.PlayerID, err)
		}
	}
	return nil
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var result model.Player
	var rank, tankathonRank sql.NullInt64
	var weightedRank sql.NullFloat64
	var stats sql.NullString
	var scoutDate, created, updated sql.NullInt64
	err := row.Scan(
		&result.ID,
		&result.Name,
		&rank,
		&tankathonRank,
		&weightedRank,
		&result.Position,
		&result.PositionalRank,
		&result.School,
		&result.Height,
		&result.Weight,
		&result.Jersey,
		&result.PlayerURL,
		&result.Notes,
		&result.GamesWatched,
		&result.Grade,
		&result.GradeSecondary,
		&stats,
		&result.Scouted,
		&scoutDate,
		&created,
		&updated)

	if err != nil {
		return nil, err
	}

	result.Rank = nullToInt(rank)
	result.TankathonRank = nullToInt(tankathonRank)
	result.WeightedRank = nullToFloat(weightedRank)
	result.ScoutDate = fromMillis(scoutDate)
	result.Created = fromMillis(created)
	result.Updated = fromMillis(updated)
	result.Stats, err = statsFromJSON(stats)
	if err != nil {
		return nil, fmt.Errorf("player %d: %w", result.ID, err)
	}

	return &result, nil
}

func namedArgsForPlayer(p *model.Player) (pgx.NamedArgs, error) {
	stats, err := statsToJSON(p.Stats)
	if err != nil {
		return nil, fmt.Errorf("player '%s': %w", p.Name, err)
	}

	return pgx.NamedArgs{
		"name":           p.Name,
		"rank":           intOrNull(p.Rank),
		"tankathonRank":  intOrNull(p.TankathonRank),
		"weightedRank":   floatOrNull(p.WeightedRank),
		"position":       p.Position,
		"positionalRank": p.PositionalRank,
		"school":         p.School,
		"height":         p.Height,
		"weight":         p.Weight,
		"jersey":         p.Jersey,
		"playerURL":      p.PlayerURL,
		"notes":          p.Notes,
		"gamesWatched":   p.GamesWatched,
		"grade":          p.Grade,
		"gradeSecondary": p.GradeSecondary,
		"stats":          stats,
		"scouted":        p.Scouted,
		"scoutDate":      toMillis(p.ScoutDate),
	}, nil
}
