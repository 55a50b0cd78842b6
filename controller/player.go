package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

func (c *controller) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	var p *model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		p, err = tx.GetPlayer(ctx, id)
		return err
	})
	return p, err
}

func (c *controller) AddPlayer(ctx context.Context, np model.NewPlayer) (*model.Player, error) {
	name := strings.TrimSpace(np.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", model.ErrValidation)
	}
	if np.Rank != nil && *np.Rank <= 0 {
		return nil, fmt.Errorf("%w: rank must be positive, got %d", model.ErrValidation, *np.Rank)
	}

	var result *model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		if err := checkNameAvailable(ctx, tx, name, 0); err != nil {
			return err
		}

		p := &model.Player{
			Name:          name,
			TankathonRank: np.Rank,
			Position:      strings.TrimSpace(np.Position),
			School:        strings.TrimSpace(np.School),
			Height:        strings.TrimSpace(np.Height),
			Weight:        strings.TrimSpace(np.Weight),
			Jersey:        strings.TrimSpace(np.Jersey),
			PlayerURL:     strings.TrimSpace(np.PlayerURL),
			Notes:         np.Notes,
			Grade:         strings.TrimSpace(np.Grade),
			Scouted:       np.Scouted,
		}
		if p.Scouted {
			p.ScoutDate = c.clock.Now().UTC()
		}
		if err := tx.InsertPlayer(ctx, p); err != nil {
			return fmt.Errorf("error adding player: %w", err)
		}

		if err := c.recalculate(ctx, tx); err != nil {
			return err
		}

		var err error
		result, err = tx.GetPlayer(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("added player %d: %s", result.ID, result.Name)
	return result, nil
}

func (c *controller) UpdateProfile(ctx context.Context, id int64, u model.ProfileUpdate) (*model.Player, error) {
	var stats map[string]any
	if u.Stats != nil {
		var err error
		if stats, err = validateStats(u.Stats); err != nil {
			return nil, err
		}
	}

	var result *model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		p, err := tx.GetPlayer(ctx, id)
		if err != nil {
			return err
		}

		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return fmt.Errorf("%w: player name can not be empty", model.ErrValidation)
			}
			if name != p.Name {
				if err := checkNameAvailable(ctx, tx, name, p.ID); err != nil {
					return err
				}
				p.Name = name
			}
		}
		setIfPresent(&p.Position, u.Position)
		setIfPresent(&p.School, u.School)
		setIfPresent(&p.Height, u.Height)
		setIfPresent(&p.Weight, u.Weight)
		setIfPresent(&p.Jersey, u.Jersey)
		setIfPresent(&p.PlayerURL, u.PlayerURL)
		if u.Stats != nil {
			p.Stats = stats
		}

		if err := tx.UpdatePlayer(ctx, p); err != nil {
			return fmt.Errorf("error updating profile of player %d: %w", id, err)
		}

		// The name and the position both feed the ranks.
		if err := c.recalculate(ctx, tx); err != nil {
			return err
		}

		result, err = tx.GetPlayer(ctx, id)
		return err
	})
	return result, err
}

func (c *controller) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return c.updatePlayer(ctx, id, func(p *model.Player) {
		p.Notes = notes
	})
}

func (c *controller) UpdateGamesWatched(ctx context.Context, id int64, gamesWatched string) error {
	return c.updatePlayer(ctx, id, func(p *model.Player) {
		p.GamesWatched = gamesWatched
	})
}

func (c *controller) UpdateGrade(ctx context.Context, id int64, grade string, slot model.GradeSlot) error {
	grade = strings.TrimSpace(grade)
	switch slot {
	case model.GradePrimary, "":
		return c.updatePlayer(ctx, id, func(p *model.Player) {
			p.Grade = grade
		})
	case model.GradeSecondary:
		return c.updatePlayer(ctx, id, func(p *model.Player) {
			p.GradeSecondary = grade
		})
	default:
		return fmt.Errorf("%w: unknown grade slot '%s'", model.ErrValidation, slot)
	}
}

func (c *controller) MarkScouted(ctx context.Context, id int64) error {
	return c.inTx(ctx, func(tx db.Tx) error {
		p, err := tx.GetPlayer(ctx, id)
		if err != nil {
			return err
		}

		p.Scouted = true
		p.ScoutDate = c.clock.Now().UTC()
		if err := tx.UpdatePlayer(ctx, p); err != nil {
			return fmt.Errorf("error marking player %d as scouted: %w", id, err)
		}

		// A scouted player no longer needs watching.
		list, err := tx.GetOrCreateList(ctx, model.Watchlist)
		if err != nil {
			return err
		}
		err = tx.DeleteEntry(ctx, list.ID, id)
		if errors.Is(err, db.ErrEntryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return compactList(ctx, tx, list.ID)
	})
}

func (c *controller) UnmarkScouted(ctx context.Context, id int64) error {
	return c.updatePlayer(ctx, id, func(p *model.Player) {
		p.Scouted = false
		p.ScoutDate = time.Time{}
	})
}

func (c *controller) SearchPlayers(ctx context.Context, f model.PlayerFilter) ([]model.Player, error) {
	var result []model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		result, err = searchPlayers(ctx, tx, &f)
		return err
	})
	return result, err
}

func (c *controller) RandomPlayer(ctx context.Context, f model.PlayerFilter) (*model.Player, error) {
	f.IncludeScouted = false

	var matches []model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		matches, err = searchPlayers(ctx, tx, &f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no unscouted players match the filter: %w", model.ErrNotFound)
	}
	p := matches[rand.IntN(len(matches))]
	return &p, nil
}

func (c *controller) Positions(ctx context.Context) ([]string, error) {
	players, err := c.listPlayers(ctx)
	if err != nil {
		return nil, err
	}

	positions := make([]string, 0, 16)
	for _, p := range players {
		positions = append(positions, model.SplitPositions(p.Position)...)
	}
	slices.Sort(positions)
	return slices.Compact(positions), nil
}

func (c *controller) Schools(ctx context.Context) ([]string, error) {
	players, err := c.listPlayers(ctx)
	if err != nil {
		return nil, err
	}

	schools := make([]string, 0, 64)
	for _, p := range players {
		if s := strings.TrimSpace(p.School); s != "" {
			schools = append(schools, s)
		}
	}
	slices.Sort(schools)
	return slices.Compact(schools), nil
}

func (c *controller) Stats(ctx context.Context) (*model.CatalogStats, error) {
	players, err := c.listPlayers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.CatalogStats{Total: len(players)}
	for _, p := range players {
		if p.Scouted {
			stats.Scouted++
		}
	}
	stats.Remaining = stats.Total - stats.Scouted
	return stats, nil
}

func (c *controller) listPlayers(ctx context.Context) ([]model.Player, error) {
	var players []model.Player
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		players, err = tx.ListPlayers(ctx)
		return err
	})
	return players, err
}

// updatePlayer loads the player, applies fn and saves it.
func (c *controller) updatePlayer(ctx context.Context, id int64, fn func(p *model.Player)) error {
	return c.inTx(ctx, func(tx db.Tx) error {
		p, err := tx.GetPlayer(ctx, id)
		if err != nil {
			return err
		}
		fn(p)
		if err := tx.UpdatePlayer(ctx, p); err != nil {
			return fmt.Errorf("error updating player %d: %w", id, err)
		}
		return nil
	})
}

func searchPlayers(ctx context.Context, tx db.Tx, f *model.PlayerFilter) ([]model.Player, error) {
	players, err := tx.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Player, 0, len(players))
	for _, p := range players {
		if f.Matches(&p) {
			result = append(result, p)
		}
	}
	slices.SortFunc(result, func(a, b model.Player) int {
		return model.ComparePlayersByRank(&a, &b)
	})
	return result, nil
}

// checkNameAvailable fails with a duplicate error when a player other than
// self already uses the name.
func checkNameAvailable(ctx context.Context, tx db.Tx, name string, self int64) error {
	other, err := tx.GetPlayerByName(ctx, name)
	if errors.Is(err, db.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID == self {
		return nil
	}
	return fmt.Errorf("%w: a player named '%s' already exists", model.ErrDuplicate, name)
}

func setIfPresent(field *string, v *string) {
	if v != nil {
		*field = strings.TrimSpace(*v)
	}
}

// validateStats accepts a flat object of scalar values, as decoded from JSON.
// An empty object clears the stats.
func validateStats(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: stats must be an object, got %T", model.ErrValidation, v)
	}

	for k, val := range obj {
		switch val.(type) {
		case nil, bool, string, float64, float32, int, int32, int64, json.Number:
		default:
			return nil, fmt.Errorf("%w: stat '%s' must be a number, string or boolean", model.ErrValidation, k)
		}
	}

	if len(obj) == 0 {
		return nil, nil
	}
	return obj, nil
}
