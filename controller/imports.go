package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

const (
	tankathonBoardName = "Tankathon Big Board"
	consensusBoardName = "Consensus Big Board"
	importedKeyPrefix  = "imported-"
)

func (c *controller) ImportBoard(ctx context.Context, imp model.BoardImport) (*model.ImportResult, error) {
	imp.Key = strings.TrimSpace(imp.Key)
	if imp.Key == "" {
		return nil, fmt.Errorf("%w: board key is required", model.ErrValidation)
	}
	if model.IsCoreBoard(imp.Key) {
		return nil, fmt.Errorf("%w: board '%s' has its own import", model.ErrValidation, imp.Key)
	}
	if imp.Name == "" {
		imp.Name = imp.Key
	}
	if imp.Source == "" {
		imp.Source = model.SourceImported
	}

	var result *model.ImportResult
	err := c.inTx(ctx, func(tx db.Tx) error {
		var err error
		if _, result, err = upsertBoardRanks(ctx, tx, &imp); err != nil {
			return err
		}
		return c.recalculate(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	c.boardImported(string(imp.Source), result)
	return result, nil
}

// ImportTankathonBoard stores the tankathon board. Tankathon also carries the
// profile of every player, which replaces the stored one wherever it is set, and
// its rank becomes the fallback rank of the player.
func (c *controller) ImportTankathonBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error) {
	imp := model.BoardImport{
		Key:     model.BoardKeyTankathon,
		Name:    tankathonBoardName,
		Source:  model.SourceTankathon,
		Entries: entries,
	}

	var result *model.ImportResult
	err := c.inTx(ctx, func(tx db.Tx) error {
		previous, err := boardPlayerIDs(ctx, tx, model.BoardKeyTankathon)
		if err != nil {
			return err
		}

		resolved, r, err := upsertBoardRanks(ctx, tx, &imp)
		if err != nil {
			return err
		}
		result = r

		for _, re := range resolved {
			delete(previous, re.player.ID)
		}
		// Players that fell off the board lose the fallback rank it gave them.
		for id := range previous {
			p, err := tx.GetPlayer(ctx, id)
			if err != nil {
				return err
			}
			p.TankathonRank = nil
			if err := tx.UpdatePlayer(ctx, p); err != nil {
				return fmt.Errorf("error clearing tankathon rank of '%s': %w", p.Name, err)
			}
		}

		for _, re := range resolved {
			p, e := re.player, re.entry
			rank := max(1, int(math.Round(e.Rank)))
			p.TankathonRank = &rank
			overwrite(&p.Position, e.Position)
			overwrite(&p.School, e.School)
			overwrite(&p.Height, e.Height)
			overwrite(&p.Weight, e.Weight)
			overwrite(&p.Jersey, e.Jersey)
			overwrite(&p.PlayerURL, e.PlayerURL)
			if len(e.Stats) > 0 {
				if stats, err := validateStats(e.Stats); err != nil {
					log.Printf("skipping stats of '%s': %v", p.Name, err)
				} else {
					p.Stats = stats
				}
			}

			if err := tx.UpdatePlayer(ctx, p); err != nil {
				return fmt.Errorf("error saving tankathon profile of '%s': %w", p.Name, err)
			}
		}

		return c.recalculate(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	c.boardImported(string(model.SourceTankathon), result)
	return result, nil
}

// ImportConsensusBoard stores the consensus board. It becomes the primary board
// unless another board already is.
func (c *controller) ImportConsensusBoard(ctx context.Context, entries []model.RankEntry) (*model.ImportResult, error) {
	imp := model.BoardImport{
		Key:     model.BoardKeyConsensus,
		Name:    consensusBoardName,
		Source:  model.SourceConsensus,
		Entries: entries,
	}

	var result *model.ImportResult
	err := c.inTx(ctx, func(tx db.Tx) error {
		boards, err := tx.ListBoards(ctx)
		if err != nil {
			return err
		}
		imp.Primary = true
		for _, b := range boards {
			if b.Primary {
				imp.Primary = false
				break
			}
		}

		if _, result, err = upsertBoardRanks(ctx, tx, &imp); err != nil {
			return err
		}
		return c.recalculate(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	c.boardImported(string(model.SourceConsensus), result)
	return result, nil
}

func (c *controller) ImportExternalBoards(ctx context.Context, boards []model.ExternalBoard, mode model.WeightingMode) (*model.ExternalImportResult, error) {
	if mode != model.WeightingEqual && mode != model.WeightingWeighted {
		return nil, fmt.Errorf("%w: unknown weighting mode '%s'", model.ErrValidation, mode)
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("%w: no boards to import", model.ErrValidation)
	}

	imports := make([]model.BoardImport, 0, len(boards))
	used := make(map[string]bool, len(boards))
	skipped := 0
	for _, b := range boards {
		name := strings.TrimSpace(b.Name)
		key := model.Slugify(name)
		if key == "" {
			log.Printf("skipping external board without a name")
			skipped++
			continue
		}

		entries, err := externalEntries(&b)
		if err != nil {
			log.Printf("skipping external board '%s': %v", name, err)
			skipped++
			continue
		}
		if !hasUsableEntry(entries) {
			log.Printf("skipping external board '%s': no usable entries", name)
			skipped++
			continue
		}

		if model.IsCoreBoard(key) {
			key = importedKeyPrefix + key
		}
		base := key
		for n := 2; used[key]; n++ {
			key = fmt.Sprintf("%s-%d", base, n)
		}
		used[key] = true

		weight := 1.0
		if mode == model.WeightingWeighted {
			weight = clampWeight(b.Weight)
		}
		imports = append(imports, model.BoardImport{
			Key:       key,
			Name:      name,
			Source:    model.SourceImported,
			SourceURL: strings.TrimSpace(b.SourceURL),
			Weight:    &weight,
			Entries:   entries,
		})
	}
	if len(imports) == 0 {
		return nil, fmt.Errorf("%w: none of the %d boards has usable entries", model.ErrValidation, len(boards))
	}

	result := &model.ExternalImportResult{BoardsSkipped: skipped}
	err := c.inTx(ctx, func(tx db.Tx) error {
		for i := range imports {
			_, r, err := upsertBoardRanks(ctx, tx, &imports[i])
			if err != nil {
				return err
			}
			result.Boards = append(result.Boards, *r)
		}
		return c.recalculate(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	result.BoardsProcessed = len(result.Boards)
	for i := range result.Boards {
		c.boardImported(string(model.SourceImported), &result.Boards[i])
	}
	return result, nil
}

// boardPlayerIDs returns the players ranked on the board, none when the board
// does not exist yet.
func boardPlayerIDs(ctx context.Context, tx db.Tx, key string) (map[int64]bool, error) {
	b, err := tx.GetBoard(ctx, key)
	if errors.Is(err, db.ErrBoardNotFound) {
		return map[int64]bool{}, nil
	} else if err != nil {
		return nil, err
	}

	ranks, err := tx.ListBoardRanks(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]bool)
	for _, r := range ranks {
		if r.BoardID == b.ID {
			ids[r.PlayerID] = true
		}
	}
	return ids, nil
}

func externalEntries(b *model.ExternalBoard) ([]model.RankEntry, error) {
	switch {
	case len(b.Entries) > 0:
		return b.Entries, nil
	case strings.TrimSpace(b.CSV) != "":
		return ParseCSVBoard(strings.NewReader(b.CSV))
	default:
		return ParseTextBoard(b.Text), nil
	}
}

func hasUsableEntry(entries []model.RankEntry) bool {
	for i := range entries {
		if strings.TrimSpace(entries[i].Name) != "" && entries[i].HasRank() {
			return true
		}
	}
	return false
}

func (c *controller) boardImported(source string, r *model.ImportResult) {
	c.metrics.BoardImported(source, r.Matched, r.Created, r.Skipped)
	log.Printf("imported board '%s': %d matched, %d created, %d skipped", r.BoardKey, r.Matched, r.Created, r.Skipped)
}

func overwrite(field *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*field = v
	}
}
