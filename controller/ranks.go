package controller

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

func (c *controller) RecalculateRanks(ctx context.Context) error {
	return c.inTx(ctx, func(tx db.Tx) error {
		return c.recalculate(ctx, tx)
	})
}

// recalculate derives the effective, weighted and positional ranks of every
// player from the stored boards and writes the ones that changed.
func (c *controller) recalculate(ctx context.Context, tx db.Tx) error {
	start := c.clock.Now()

	players, err := tx.ListPlayers(ctx)
	if err != nil {
		return err
	}
	boards, err := tx.ListBoards(ctx)
	if err != nil {
		return err
	}
	ranks, err := tx.ListBoardRanks(ctx)
	if err != nil {
		return err
	}

	updates := calculateEffectiveRanks(players, boards, ranks)

	current := make(map[int64]*model.Player, len(players))
	for i := range players {
		current[players[i].ID] = &players[i]
	}
	changed := make([]model.RankUpdate, 0, len(updates))
	for _, u := range updates {
		if rankChanged(current[u.PlayerID], &u) {
			changed = append(changed, u)
		}
	}

	if err := tx.SaveRanks(ctx, changed); err != nil {
		return fmt.Errorf("error saving effective ranks: %w", err)
	}

	d := c.clock.Now().Sub(start)
	c.metrics.RanksRecalculated(d)
	log.Printf("recalculated ranks of %d players, %d changed, took %v", len(players), len(changed), d)
	return nil
}

type playerValue struct {
	player   *model.Player
	value    float64
	weighted *float64
}

// calculateEffectiveRanks computes the derived ranks of every player. The value
// of a player is its rank on the primary board, else the weighted average of its
// ranks on boards with a positive weight, else its fallback rank. Players with
// none of these sort last.
func calculateEffectiveRanks(players []model.Player, boards []model.RankBoard, ranks []model.BoardRank) []model.RankUpdate {
	var primaryID int64
	weights := make(map[int64]float64, len(boards))
	for _, b := range boards {
		weights[b.ID] = b.Weight
		if b.Primary {
			primaryID = b.ID
		}
	}

	byPlayer := make(map[int64][]model.BoardRank, len(players))
	for _, r := range ranks {
		byPlayer[r.PlayerID] = append(byPlayer[r.PlayerID], r)
	}

	values := make([]playerValue, 0, len(players))
	for i := range players {
		p := &players[i]
		pv := playerValue{player: p, value: math.Inf(1)}

		primary := math.NaN()
		sum, total := 0.0, 0.0
		for _, r := range byPlayer[p.ID] {
			if primaryID != 0 && r.BoardID == primaryID {
				primary = r.Rank
			}
			if w := weights[r.BoardID]; w > 0 {
				sum += r.Rank * w
				total += w
			}
		}
		if total > 0 {
			avg := sum / total
			pv.weighted = &avg
		}

		switch {
		case !math.IsNaN(primary):
			pv.value = primary
		case pv.weighted != nil:
			pv.value = *pv.weighted
		case p.TankathonRank != nil:
			pv.value = float64(*p.TankathonRank)
		}
		values = append(values, pv)
	}

	slices.SortFunc(values, func(a, b playerValue) int {
		if c := cmp.Compare(a.value, b.value); c != 0 {
			return c
		}
		if c := strings.Compare(a.player.Name, b.player.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.player.ID, b.player.ID)
	})

	positionCounts := make(map[string]int)
	updates := make([]model.RankUpdate, 0, len(values))
	for i, pv := range values {
		rank := i + 1
		u := model.RankUpdate{
			PlayerID:     pv.player.ID,
			Rank:         &rank,
			WeightedRank: pv.weighted,
		}
		if pos := model.PrimaryPosition(pv.player.Position); pos != "" {
			positionCounts[pos]++
			u.PositionalRank = strconv.Itoa(positionCounts[pos])
		}
		updates = append(updates, u)
	}
	return updates
}

func rankChanged(p *model.Player, u *model.RankUpdate) bool {
	if p == nil {
		return true
	}
	return !equalPtr(p.Rank, u.Rank) || !equalPtr(p.WeightedRank, u.WeightedRank) || p.PositionalRank != u.PositionalRank
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
