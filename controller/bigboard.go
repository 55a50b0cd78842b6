package controller

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

// unrankedSortRank places unranked players after every ranked player when a
// big board is sorted.
const unrankedSortRank = 9999

func (c *controller) GetBigBoard(ctx context.Context, id model.ListID) ([]model.BigBoardEntry, error) {
	id, err := id.Validate()
	if err != nil {
		return nil, err
	}

	var entries []model.BigBoardEntry
	err = c.inTx(ctx, func(tx db.Tx) error {
		list, err := tx.GetOrCreateList(ctx, id)
		if err != nil {
			return err
		}
		if entries, err = tx.ListEntries(ctx, list.ID); err != nil {
			return err
		}

		if id.Kind == model.ListOverall {
			return annotateConsensusRanks(ctx, tx, entries)
		}
		return nil
	})
	return entries, err
}

func (c *controller) AddToBigBoard(ctx context.Context, id model.ListID, playerID int64) error {
	id, err := id.Validate()
	if err != nil {
		return err
	}

	return c.inTx(ctx, func(tx db.Tx) error {
		p, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		list, err := tx.GetOrCreateList(ctx, id)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(ctx, list.ID)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.Player.ID == playerID {
				return fmt.Errorf("%w: '%s' is already on the %s board", model.ErrDuplicate, p.Name, id)
			}
		}

		// Insert before the first member that does not sort ahead of the new player.
		idx := len(entries)
		for i := range entries {
			if compareBigBoardPlayers(&entries[i].Player, p) >= 0 {
				idx = i
				break
			}
		}

		ids := entryPlayerIDs(entries)
		ids = slices.Insert(ids, idx, playerID)
		if err := tx.InsertEntry(ctx, list.ID, playerID, idx+1); err != nil {
			return err
		}
		return tx.SetEntryPositions(ctx, list.ID, ids)
	})
}

func (c *controller) ReorderBigBoard(ctx context.Context, id model.ListID, playerIDs []int64) error {
	id, err := id.Validate()
	if err != nil {
		return err
	}

	return c.inTx(ctx, func(tx db.Tx) error {
		list, err := tx.GetOrCreateList(ctx, id)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(ctx, list.ID)
		if err != nil {
			return err
		}

		members := make(map[int64]bool, len(entries))
		for _, e := range entries {
			members[e.Player.ID] = true
		}
		if len(playerIDs) != len(members) {
			return fmt.Errorf("%w: the new order has %d players, the %s board has %d",
				model.ErrValidation, len(playerIDs), id, len(members))
		}
		seen := make(map[int64]bool, len(playerIDs))
		for _, pid := range playerIDs {
			if !members[pid] {
				return fmt.Errorf("%w: player %d is not on the %s board", model.ErrValidation, pid, id)
			}
			if seen[pid] {
				return fmt.Errorf("%w: player %d is listed more than once", model.ErrValidation, pid)
			}
			seen[pid] = true
		}

		return tx.SetEntryPositions(ctx, list.ID, playerIDs)
	})
}

func (c *controller) RemoveFromBigBoard(ctx context.Context, id model.ListID, playerID int64) error {
	id, err := id.Validate()
	if err != nil {
		return err
	}

	return c.inTx(ctx, func(tx db.Tx) error {
		list, err := tx.GetOrCreateList(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteEntry(ctx, list.ID, playerID); err != nil {
			return err
		}
		return compactList(ctx, tx, list.ID)
	})
}

func (c *controller) AutoSortBigBoard(ctx context.Context, id model.ListID) error {
	id, err := id.Validate()
	if err != nil {
		return err
	}

	return c.inTx(ctx, func(tx db.Tx) error {
		list, err := tx.GetOrCreateList(ctx, id)
		if err != nil {
			return err
		}
		entries, err := tx.ListEntries(ctx, list.ID)
		if err != nil {
			return err
		}

		slices.SortStableFunc(entries, func(a, b model.BigBoardEntry) int {
			return compareBigBoardPlayers(&a.Player, &b.Player)
		})
		log.Printf("sorted %d players on the %s board", len(entries), id)
		return tx.SetEntryPositions(ctx, list.ID, entryPlayerIDs(entries))
	})
}

func (c *controller) ExportBigBoard(ctx context.Context, id model.ListID) (string, error) {
	entries, err := c.GetBigBoard(ctx, id)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s", e.Position, e.Player.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// compareBigBoardPlayers orders players by grade, then effective rank, then name.
func compareBigBoardPlayers(a, b *model.Player) int {
	if c := model.ParseGrade(a.Grade).Compare(model.ParseGrade(b.Grade)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.RankOr(unrankedSortRank), b.RankOr(unrankedSortRank)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// annotateConsensusRanks sets the consensus board rank of every entry, matching
// players by name and then by normalized name.
func annotateConsensusRanks(ctx context.Context, tx db.Tx, entries []model.BigBoardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	board, err := tx.GetBoard(ctx, model.BoardKeyConsensus)
	if errors.Is(err, db.ErrBoardNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	ranks, err := tx.ListBoardRanks(ctx)
	if err != nil {
		return err
	}
	consensus := make(map[int64]float64)
	for _, r := range ranks {
		if r.BoardID == board.ID {
			consensus[r.PlayerID] = r.Rank
		}
	}
	if len(consensus) == 0 {
		return nil
	}

	players, err := tx.ListPlayers(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(consensus))
	ranked := make([]model.Player, 0, len(consensus))
	for _, p := range players {
		if _, found := consensus[p.ID]; found {
			byName[p.Name] = p.ID
			ranked = append(ranked, p)
		}
	}
	index := model.NewNameIndex(ranked)

	for i := range entries {
		name := entries[i].Player.Name
		pid, found := byName[name]
		if !found {
			pid, found = index.Lookup(name)
		}
		if found {
			rank := consensus[pid]
			entries[i].ConsensusRank = &rank
		}
	}
	return nil
}

// compactList renumbers the members of a list 1..N keeping their order.
func compactList(ctx context.Context, tx db.Tx, listID int64) error {
	entries, err := tx.ListEntries(ctx, listID)
	if err != nil {
		return err
	}
	return tx.SetEntryPositions(ctx, listID, entryPlayerIDs(entries))
}

func entryPlayerIDs(entries []model.BigBoardEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Player.ID)
	}
	return ids
}
