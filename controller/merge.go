package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

func (c *controller) MergeDuplicates(ctx context.Context) (*model.MergeResult, error) {
	result := &model.MergeResult{}
	err := c.inTx(ctx, func(tx db.Tx) error {
		players, err := tx.ListPlayers(ctx)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(players))
		groups := make(map[string][]*model.Player)
		for i := range players {
			key := model.NormalizeName(players[i].Name)
			if key == "" {
				continue
			}
			if _, found := groups[key]; !found {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], &players[i])
		}

		for _, key := range keys {
			group := groups[key]
			if len(group) < 2 {
				continue
			}

			canonical := pickCanonical(group)
			for _, dup := range group {
				if dup == canonical {
					continue
				}
				if err := mergePlayer(ctx, tx, canonical, dup); err != nil {
					return err
				}
				result.PlayersRemoved++
			}
			if err := tx.UpdatePlayer(ctx, canonical); err != nil {
				return fmt.Errorf("error saving merged player '%s': %w", canonical.Name, err)
			}
			log.Printf("merged %d records into '%s' (%d)", len(group), canonical.Name, canonical.ID)
			result.GroupsMerged++
		}

		if result.PlayersRemoved == 0 {
			return nil
		}

		lists, err := tx.ListLists(ctx)
		if err != nil {
			return err
		}
		for _, l := range lists {
			if err := compactList(ctx, tx, l.ID); err != nil {
				return err
			}
		}

		return c.recalculate(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	c.metrics.PlayersMerged(result.PlayersRemoved)
	log.Printf("merge removed %d duplicate players in %d groups", result.PlayersRemoved, result.GroupsMerged)
	return result, nil
}

// pickCanonical chooses the record that survives a merge: the most complete one,
// then the one whose name needs no normalization, then the oldest.
func pickCanonical(group []*model.Player) *model.Player {
	best := group[0]
	for _, p := range group[1:] {
		ps, bs := p.CompletenessScore(), best.CompletenessScore()
		switch {
		case ps > bs:
			best = p
		case ps < bs:
		case model.IsNormalizedName(p.Name) && !model.IsNormalizedName(best.Name):
			best = p
		case model.IsNormalizedName(p.Name) == model.IsNormalizedName(best.Name) && p.ID < best.ID:
			best = p
		}
	}
	return best
}

// mergePlayer folds dup into canonical and deletes dup. canonical is only
// changed in memory, the caller saves it.
func mergePlayer(ctx context.Context, tx db.Tx, canonical, dup *model.Player) error {
	fill(&canonical.Position, dup.Position)
	fill(&canonical.School, dup.School)
	fill(&canonical.Height, dup.Height)
	fill(&canonical.Weight, dup.Weight)
	fill(&canonical.Jersey, dup.Jersey)
	fill(&canonical.PlayerURL, dup.PlayerURL)
	fill(&canonical.Notes, dup.Notes)
	fill(&canonical.GamesWatched, dup.GamesWatched)
	fill(&canonical.Grade, dup.Grade)
	fill(&canonical.GradeSecondary, dup.GradeSecondary)
	if len(canonical.Stats) == 0 && len(dup.Stats) > 0 {
		canonical.Stats = dup.Stats
	}

	canonical.Rank = minPtr(canonical.Rank, dup.Rank)
	canonical.TankathonRank = minPtr(canonical.TankathonRank, dup.TankathonRank)
	canonical.WeightedRank = minPtr(canonical.WeightedRank, dup.WeightedRank)

	if dup.Scouted {
		canonical.Scouted = true
	}
	if canonical.ScoutDate.IsZero() {
		canonical.ScoutDate = dup.ScoutDate
	}

	if err := mergeBoardRanks(ctx, tx, canonical.ID, dup.ID); err != nil {
		return err
	}
	if err := mergeListEntries(ctx, tx, canonical.ID, dup.ID); err != nil {
		return err
	}

	if err := tx.DeletePlayer(ctx, dup.ID); err != nil {
		return fmt.Errorf("error deleting duplicate player '%s' (%d): %w", dup.Name, dup.ID, err)
	}
	return nil
}

// mergeBoardRanks gives the board ranks of dup to canonical, the lower rank wins
// when both are ranked on a board.
func mergeBoardRanks(ctx context.Context, tx db.Tx, canonicalID, dupID int64) error {
	have, err := tx.ListBoardRanksForPlayer(ctx, canonicalID)
	if err != nil {
		return err
	}
	byBoard := make(map[int64]float64, len(have))
	for _, r := range have {
		byBoard[r.BoardID] = r.Rank
	}

	dupRanks, err := tx.ListBoardRanksForPlayer(ctx, dupID)
	if err != nil {
		return err
	}
	for _, r := range dupRanks {
		if current, found := byBoard[r.BoardID]; found && current <= r.Rank {
			continue
		}
		r.PlayerID = canonicalID
		if err := tx.SaveBoardRank(ctx, r); err != nil {
			return fmt.Errorf("error moving board rank of player %d: %w", dupID, err)
		}
	}
	return nil
}

// mergeListEntries gives the list entries of dup to canonical. Lists that
// already hold canonical keep its entry.
func mergeListEntries(ctx context.Context, tx db.Tx, canonicalID, dupID int64) error {
	have, err := tx.ListsForPlayer(ctx, canonicalID)
	if err != nil {
		return err
	}
	member := make(map[int64]bool, len(have))
	for _, id := range have {
		member[id] = true
	}

	lists, err := tx.ListsForPlayer(ctx, dupID)
	if err != nil {
		return err
	}
	for _, listID := range lists {
		if member[listID] {
			err = tx.DeleteEntry(ctx, listID, dupID)
		} else {
			err = tx.MoveEntry(ctx, listID, dupID, canonicalID)
		}
		if err != nil && !errors.Is(err, db.ErrEntryNotFound) {
			return fmt.Errorf("error moving list entry of player %d: %w", dupID, err)
		}
	}
	return nil
}

func fill(field *string, v string) {
	if strings.TrimSpace(*field) == "" && strings.TrimSpace(v) != "" {
		*field = v
	}
}

func minPtr[T int | float64](a, b *T) *T {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b < *a:
		return b
	}
	return a
}
