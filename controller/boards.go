package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

func (c *controller) ListBoards(ctx context.Context) ([]model.RankBoard, error) {
	var boards []model.RankBoard
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		boards, err = tx.ListBoards(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	sortBoards(boards)
	return boards, nil
}

func (c *controller) SetWeights(ctx context.Context, updates []model.WeightUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: no board weights given", model.ErrValidation)
	}
	primaryRequested := false
	seen := make(map[string]bool, len(updates))
	for _, u := range updates {
		if seen[u.Key] {
			return fmt.Errorf("%w: board '%s' is listed more than once", model.ErrValidation, u.Key)
		}
		seen[u.Key] = true
		if !u.Primary {
			continue
		}
		if primaryRequested {
			return fmt.Errorf("%w: only one board can be primary", model.ErrValidation)
		}
		primaryRequested = true
	}

	return c.inTx(ctx, func(tx db.Tx) error {
		// Find every board before changing anything.
		boards := make([]*model.RankBoard, 0, len(updates))
		for _, u := range updates {
			b, err := tx.GetBoard(ctx, u.Key)
			if err != nil {
				return fmt.Errorf("error finding board '%s': %w", u.Key, err)
			}
			boards = append(boards, b)
		}

		if primaryRequested {
			if err := tx.ClearPrimaryBoard(ctx); err != nil {
				return fmt.Errorf("error clearing primary board: %w", err)
			}
		}

		for i, b := range boards {
			b.Weight = clampWeight(updates[i].Weight)
			b.Primary = updates[i].Primary || (b.Primary && !primaryRequested)
			if err := tx.SaveBoard(ctx, b); err != nil {
				return fmt.Errorf("error saving board '%s': %w", b.Key, err)
			}
		}

		return c.recalculate(ctx, tx)
	})
}

func (c *controller) RemoveBoard(ctx context.Context, key string) error {
	return c.inTx(ctx, func(tx db.Tx) error {
		b, err := tx.GetBoard(ctx, key)
		if err != nil {
			return err
		}
		if model.IsCoreBoard(b.Key) || b.Source != model.SourceImported {
			return fmt.Errorf("%w: board '%s' can not be removed", model.ErrPermission, key)
		}

		if err := tx.DeleteBoard(ctx, b.ID); err != nil {
			return fmt.Errorf("error removing board '%s': %w", key, err)
		}

		if b.Primary {
			remaining, err := tx.ListBoards(ctx)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				sortBoards(remaining)
				next := remaining[0]
				next.Primary = true
				if err := tx.SaveBoard(ctx, &next); err != nil {
					return fmt.Errorf("error making '%s' the primary board: %w", next.Key, err)
				}
				log.Printf("board '%s' is now the primary board", next.Key)
			}
		}

		log.Printf("removed board '%s'", key)
		return c.recalculate(ctx, tx)
	})
}

// getOrCreateBoard creates or updates the board of an import.
func getOrCreateBoard(ctx context.Context, tx db.Tx, imp *model.BoardImport) (*model.RankBoard, error) {
	b, err := tx.GetBoard(ctx, imp.Key)
	if errors.Is(err, db.ErrBoardNotFound) {
		b = &model.RankBoard{Key: imp.Key, Weight: 1.0}
	} else if err != nil {
		return nil, err
	}

	b.Name = imp.Name
	b.Source = imp.Source
	if imp.SourceURL != "" {
		b.SourceURL = imp.SourceURL
	}
	if imp.Weight != nil {
		b.Weight = clampWeight(*imp.Weight)
	}

	if imp.Primary {
		if err := tx.ClearPrimaryBoard(ctx); err != nil {
			return nil, fmt.Errorf("error clearing primary board: %w", err)
		}
		b.Primary = true
	}

	if err := tx.SaveBoard(ctx, b); err != nil {
		return nil, fmt.Errorf("error saving board '%s': %w", imp.Key, err)
	}
	return b, nil
}

type resolvedEntry struct {
	player *model.Player
	entry  *model.RankEntry
}

// upsertBoardRanks stores the ranks of an import, replacing every rank the board
// had before. Players are created for the names that can not be matched.
func upsertBoardRanks(ctx context.Context, tx db.Tx, imp *model.BoardImport) ([]resolvedEntry, *model.ImportResult, error) {
	result := &model.ImportResult{BoardKey: imp.Key}

	usable := make([]*model.RankEntry, 0, len(imp.Entries))
	for i := range imp.Entries {
		e := &imp.Entries[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || !e.HasRank() {
			result.Skipped++
			continue
		}
		usable = append(usable, e)
	}
	if len(usable) == 0 {
		return nil, nil, fmt.Errorf("%w: board '%s' has no usable entries", model.ErrValidation, imp.Key)
	}

	resolver, err := newPlayerResolver(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	resolved := make([]resolvedEntry, 0, len(usable))
	seen := make(map[int64]bool, len(usable))
	for _, e := range usable {
		p, created, err := resolver.findOrCreate(ctx, tx, e.Name, e.Position, e.School)
		if err != nil {
			return nil, nil, err
		}
		if seen[p.ID] {
			log.Printf("board '%s' lists '%s' more than once, skipping rank %v", imp.Key, e.Name, e.Rank)
			result.Skipped++
			continue
		}
		seen[p.ID] = true

		if created {
			result.Created++
		} else {
			result.Matched++
		}
		resolved = append(resolved, resolvedEntry{player: p, entry: e})
	}

	b, err := getOrCreateBoard(ctx, tx, imp)
	if err != nil {
		return nil, nil, err
	}

	ranks := make([]model.BoardRank, 0, len(resolved))
	for _, r := range resolved {
		ranks = append(ranks, model.BoardRank{PlayerID: r.player.ID, BoardID: b.ID, Rank: r.entry.Rank})
	}
	if err := tx.ReplaceBoardRanks(ctx, b.ID, ranks); err != nil {
		return nil, nil, fmt.Errorf("error saving ranks of board '%s': %w", imp.Key, err)
	}

	return resolved, result, nil
}

// playerResolver finds the player an imported name refers to.
type playerResolver struct {
	byName map[string]*model.Player
	byID   map[int64]*model.Player
	index  *model.NameIndex
}

func newPlayerResolver(ctx context.Context, tx db.Tx) (*playerResolver, error) {
	players, err := tx.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	r := &playerResolver{
		byName: make(map[string]*model.Player, len(players)),
		byID:   make(map[int64]*model.Player, len(players)),
		index:  model.NewNameIndex(players),
	}
	for i := range players {
		p := &players[i]
		r.byName[p.Name] = p
		r.byID[p.ID] = p
	}
	return r, nil
}

// findOrCreate looks the name up exactly, then by its normalized form. When
// neither matches a new player is stored with the position and school given.
func (r *playerResolver) findOrCreate(ctx context.Context, tx db.Tx, name, position, school string) (*model.Player, bool, error) {
	if p, found := r.byName[name]; found {
		return p, false, nil
	}
	if id, found := r.index.Lookup(name); found {
		return r.byID[id], false, nil
	}

	p := &model.Player{
		Name:     name,
		Position: strings.TrimSpace(position),
		School:   strings.TrimSpace(school),
	}
	if err := tx.InsertPlayer(ctx, p); err != nil {
		return nil, false, fmt.Errorf("error adding player '%s': %w", name, err)
	}
	r.byName[p.Name] = p
	r.byID[p.ID] = p
	r.index.Add(p.Name, p.ID)
	return p, true, nil
}

// sortBoards orders boards by name, then key.
func sortBoards(boards []model.RankBoard) {
	slices.SortFunc(boards, func(a, b model.RankBoard) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
