package controller

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/mww/draft_scout/model"
	"github.com/mww/draft_scout/testutils"
)

func TestImportExternalBoards_equalWeights(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	res, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "Board Alpha", Text: "1. Player One\n2. Player Two", Weight: 3},
		{Name: "Board Beta", Text: "1. Player Two\n2. Player One", Weight: 9},
	}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}
	if res.BoardsProcessed != 2 || res.BoardsSkipped != 0 {
		t.Errorf("expected 2 boards processed, got: %+v", *res)
	}
	if res.Boards[0].Created != 2 || res.Boards[1].Matched != 2 {
		t.Errorf("expected the second board to match the players of the first, got: %+v", res.Boards)
	}

	boards, err := c.ListBoards(ctx)
	if err != nil {
		t.Fatalf("error listing boards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got: %d", len(boards))
	}
	for i, want := range []string{"Board Alpha", "Board Beta"} {
		b := boards[i]
		if b.Name != want {
			t.Errorf("board %d name incorrect, wanted: '%s', got: '%s'", i, want, b.Name)
		}
		if b.Weight != 1.0 {
			t.Errorf("equal mode should store weight 1, got: %f", b.Weight)
		}
		if b.Source != model.SourceImported || b.PlayerCount != 2 {
			t.Errorf("board %s incorrect, got: %+v", b.Key, b)
		}
	}
	if boards[0].Key != "board-alpha" {
		t.Errorf("key incorrect, got: '%s'", boards[0].Key)
	}

	// Both average 1.5, the name breaks the tie.
	one := findPlayer(t, c, "Player One")
	assertRank(t, one, 1)
	assertRank(t, findPlayer(t, c, "Player Two"), 2)
	if one.WeightedRank == nil || *one.WeightedRank != 1.5 {
		t.Errorf("weighted rank incorrect, got: %v", one.WeightedRank)
	}
}

func TestImportExternalBoards_weighted(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	_, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "Board Gamma", Text: "1. Player Three\n2. Player Four", Weight: 2.5},
		{Name: "Board Delta", Text: "1. Player Four\n2. Player Three", Weight: 0.5},
		{Name: "Board Epsilon", Text: "1. Player Four", Weight: -2},
	}, model.WeightingWeighted)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}

	wants := map[string]float64{"board-gamma": 2.5, "board-delta": 0.5, "board-epsilon": 0}
	for key, want := range wants {
		if b := findBoard(t, c, key); b.Weight != want {
			t.Errorf("weight of %s incorrect, wanted: %f, got: %f", key, want, b.Weight)
		}
	}

	three := findPlayer(t, c, "Player Three")
	assertRank(t, three, 1)
	assertRank(t, findPlayer(t, c, "Player Four"), 2)
	if three.WeightedRank == nil || math.Abs(*three.WeightedRank-3.5/3.0) > 1e-9 {
		t.Errorf("weighted rank incorrect, got: %v", three.WeightedRank)
	}
}

func TestImportExternalBoards_inputs(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	res, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "Tankathon", Text: "1. Arch Manning"},
		{Name: "The Athletic", CSV: "RK,PLAYER NAME,POS\n1,Caleb Downs,S\n2,Arch Manning,QB\n"},
		{Name: "The Athletic!", Entries: rankEntries("Jeremiyah Love")},
		{Name: "Empty", Text: "\n\n"},
		{Name: "", Text: "1. Arch Manning"},
		{Name: "Broken CSV", CSV: "NAME,POS\nArch Manning,QB\n"},
	}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}
	if res.BoardsProcessed != 3 || res.BoardsSkipped != 3 {
		t.Errorf("expected 3 boards processed and 3 skipped, got: %+v", *res)
	}

	keys := make([]string, 0, len(res.Boards))
	for _, b := range res.Boards {
		keys = append(keys, b.BoardKey)
	}
	wantKeys := []string{"imported-tankathon", "the-athletic", "the-athletic-2"}
	if !slices.Equal(wantKeys, keys) {
		t.Errorf("keys incorrect, wanted: %v, got: %v", wantKeys, keys)
	}

	if p := findPlayer(t, c, "Caleb Downs"); p.Position != "S" {
		t.Errorf("a player created from a CSV board should keep its position, got: '%s'", p.Position)
	}
	// An imported board named like a built-in one can be removed.
	if err := c.RemoveBoard(ctx, "imported-tankathon"); err != nil {
		t.Errorf("error removing imported board: %v", err)
	}
}

func TestImportExternalBoards_keyCollisions(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	res, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "Board A", Text: "1. Arch Manning"},
		{Name: "Board A", Text: "1. Caleb Downs"},
		{Name: "Board A 2", Text: "1. Jeremiyah Love"},
	}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}

	keys := make([]string, 0, len(res.Boards))
	for _, b := range res.Boards {
		keys = append(keys, b.BoardKey)
	}
	wantKeys := []string{"board-a", "board-a-2", "board-a-2-2"}
	if !slices.Equal(wantKeys, keys) {
		t.Errorf("keys incorrect, wanted: %v, got: %v", wantKeys, keys)
	}

	boards, err := c.ListBoards(ctx)
	if err != nil {
		t.Fatalf("error listing boards: %v", err)
	}
	if len(boards) != 3 {
		t.Fatalf("expected 3 boards, got: %d", len(boards))
	}
	for _, b := range boards {
		if b.PlayerCount != 1 {
			t.Errorf("board '%s' should rank one player, got: %d", b.Key, b.PlayerCount)
		}
	}
}

func TestImportExternalBoards_errors(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	_, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{{Name: "PFF", Text: "1. Arch Manning"}}, "ranked")
	assertErrorIs(t, err, model.ErrValidation)

	_, err = c.ImportExternalBoards(ctx, nil, model.WeightingEqual)
	assertErrorIs(t, err, model.ErrValidation)

	_, err = c.ImportExternalBoards(ctx, []model.ExternalBoard{{Name: "Empty", Text: "   "}}, model.WeightingEqual)
	assertErrorIs(t, err, model.ErrValidation)

	boards, err := c.ListBoards(ctx)
	if err != nil {
		t.Fatalf("error listing boards: %v", err)
	}
	if len(boards) != 0 {
		t.Errorf("failed imports should not store boards, got: %v", boards)
	}
}

func TestImportBoard(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	testutils.InsertTestPlayers(c.db)

	res, err := c.ImportBoard(ctx, model.BoardImport{
		Key: "pff",
		Entries: []model.RankEntry{
			{Rank: 1, Name: "L.T. Overton"},
			{Rank: 2, Name: "Ruben Bain Jr"},
			{Rank: 3, Name: "Jeremiah Smith", Position: "WR", School: "Ohio State"},
			{Rank: 4, Name: "LT Overton"},
			{Rank: 0, Name: "Arch Manning"},
			{Rank: 5, Name: "   "},
		},
	})
	if err != nil {
		t.Fatalf("error importing board: %v", err)
	}
	// "Ruben" and "Rueben" are different names.
	want := model.ImportResult{BoardKey: "pff", Matched: 1, Created: 2, Skipped: 3}
	if want != *res {
		t.Errorf("import result incorrect, wanted: %+v, got: %+v", want, *res)
	}

	b := findBoard(t, c, "pff")
	if b.Name != "pff" || b.Source != model.SourceImported || b.Weight != 1.0 || b.PlayerCount != 3 {
		t.Errorf("board incorrect, got: %+v", *b)
	}
	smith := findPlayer(t, c, "Jeremiah Smith")
	if smith.Position != "WR" || smith.School != "Ohio State" {
		t.Errorf("new player should use the hints, got: %s, %s", smith.Position, smith.School)
	}
	assertRank(t, findPlayer(t, c, testutils.LTOverton.Name), 1)

	// Importing again replaces the ranks and keeps the weight that was set.
	if err := c.SetWeights(ctx, []model.WeightUpdate{{Key: "pff", Weight: 2}}); err != nil {
		t.Fatalf("error setting weights: %v", err)
	}
	if _, err := c.ImportBoard(ctx, model.BoardImport{Key: "pff", Name: "PFF", Entries: rankEntries("Arch Manning")}); err != nil {
		t.Fatalf("error importing board again: %v", err)
	}
	b = findBoard(t, c, "pff")
	if b.Weight != 2 || b.PlayerCount != 1 || b.Name != "PFF" {
		t.Errorf("board incorrect after re-import, got: %+v", *b)
	}

	_, err = c.ImportBoard(ctx, model.BoardImport{Key: "espn", Entries: []model.RankEntry{{Name: "Arch Manning"}}})
	assertErrorIs(t, err, model.ErrValidation)
	_, err = c.ImportBoard(ctx, model.BoardImport{Key: " ", Entries: rankEntries("Arch Manning")})
	assertErrorIs(t, err, model.ErrValidation)
}

func TestImportTankathonBoard(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	testutils.InsertTestPlayers(c.db)

	res, err := c.ImportTankathonBoard(ctx, []model.RankEntry{
		{Rank: 1, Name: "Arch Manning", Position: "QB", School: "Texas", Height: "6-4", Weight: "220", PlayerURL: "https://example.com/arch"},
		{Rank: 2.4, Name: "Caleb Downs", Stats: map[string]any{"int": 2.0}},
		{Rank: 3, Name: "Jeremiah Smith", Position: "WR", School: "Ohio State"},
		{Rank: 4, Name: "Arch Manning"},
	})
	if err != nil {
		t.Fatalf("error importing tankathon board: %v", err)
	}
	want := model.ImportResult{BoardKey: model.BoardKeyTankathon, Matched: 2, Created: 1, Skipped: 1}
	if want != *res {
		t.Errorf("import result incorrect, wanted: %+v, got: %+v", want, *res)
	}

	arch := findPlayer(t, c, "Arch Manning")
	if arch.TankathonRank == nil || *arch.TankathonRank != 1 {
		t.Errorf("fallback rank incorrect, got: %v", arch.TankathonRank)
	}
	if arch.Height != "6-4" || arch.Weight != "220" || arch.PlayerURL != "https://example.com/arch" {
		t.Errorf("profile not updated, got: %+v", arch)
	}

	downs := findPlayer(t, c, "Caleb Downs")
	if downs.TankathonRank == nil || *downs.TankathonRank != 2 {
		t.Errorf("fallback rank should be rounded, got: %v", downs.TankathonRank)
	}
	if downs.School != "Ohio State" || downs.Stats["int"] != 2.0 {
		t.Errorf("empty fields should not clear the profile, got: %+v", downs)
	}

	b := findBoard(t, c, model.BoardKeyTankathon)
	if b.Source != model.SourceTankathon || b.Primary {
		t.Errorf("tankathon board incorrect, got: %+v", *b)
	}
	assertErrorIs(t, c.RemoveBoard(ctx, model.BoardKeyTankathon), model.ErrPermission)

	// The built-in boards only change through their own imports.
	_, err = c.ImportBoard(ctx, model.BoardImport{Key: model.BoardKeyTankathon, Entries: rankEntries("Caleb Downs")})
	assertErrorIs(t, err, model.ErrValidation)
	_, err = c.ImportBoard(ctx, model.BoardImport{Key: " consensus ", Entries: rankEntries("Caleb Downs")})
	assertErrorIs(t, err, model.ErrValidation)
	if b := findBoard(t, c, model.BoardKeyTankathon); b.Source != model.SourceTankathon || b.PlayerCount != 3 {
		t.Errorf("tankathon board changed by a generic import, got: %+v", *b)
	}
}

func TestImportTankathonBoard_dropsStaleFallbackRank(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	addPlayer(t, c, model.NewPlayer{Name: "Jeremiah Smith", Rank: intPtr(5)})

	if _, err := c.ImportTankathonBoard(ctx, rankEntries("Arch Manning", "Caleb Downs")); err != nil {
		t.Fatalf("error importing tankathon board: %v", err)
	}
	if _, err := c.ImportTankathonBoard(ctx, rankEntries("Caleb Downs")); err != nil {
		t.Fatalf("error importing tankathon board again: %v", err)
	}

	arch := findPlayer(t, c, "Arch Manning")
	if arch.TankathonRank != nil {
		t.Errorf("player missing from the new board should lose its fallback rank, got: %d", *arch.TankathonRank)
	}
	downs := findPlayer(t, c, "Caleb Downs")
	if downs.TankathonRank == nil || *downs.TankathonRank != 1 {
		t.Errorf("fallback rank of Caleb Downs incorrect, got: %v", downs.TankathonRank)
	}
	// A rank entered by hand was never on the board and is kept.
	smith := findPlayer(t, c, "Jeremiah Smith")
	if smith.TankathonRank == nil || *smith.TankathonRank != 5 {
		t.Errorf("manual rank should be kept, got: %v", smith.TankathonRank)
	}

	assertRank(t, downs, 1)
	assertRank(t, smith, 2)
	assertRank(t, arch, 3)
}

func TestConsensusBoard_keepsExistingPrimary(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	_, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{{Name: "PFF", Text: "1. Arch Manning\n2. Caleb Downs"}}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing board: %v", err)
	}
	if err := c.SetWeights(ctx, []model.WeightUpdate{{Key: "pff", Weight: 1, Primary: true}}); err != nil {
		t.Fatalf("error setting weights: %v", err)
	}

	if _, err := c.ImportConsensusBoard(ctx, rankEntries("Caleb Downs", "Arch Manning")); err != nil {
		t.Fatalf("error importing consensus board: %v", err)
	}
	if findBoard(t, c, model.BoardKeyConsensus).Primary {
		t.Errorf("consensus board should not take over the primary board")
	}
	assertRank(t, findPlayer(t, c, "Arch Manning"), 1)
}

func TestSetWeights(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	if _, err := c.ImportConsensusBoard(ctx, rankEntries("Arch Manning", "Caleb Downs")); err != nil {
		t.Fatalf("error importing consensus board: %v", err)
	}
	_, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "PFF", Text: "1. Caleb Downs\n2. Arch Manning"},
		{Name: "ESPN", Text: "1. Caleb Downs\n2. Arch Manning"},
	}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}
	assertRank(t, findPlayer(t, c, "Arch Manning"), 1)

	errTests := map[string]struct {
		updates []model.WeightUpdate
		want    error
	}{
		"empty":       {updates: []model.WeightUpdate{}, want: model.ErrValidation},
		"two primary": {updates: []model.WeightUpdate{{Key: "pff", Primary: true}, {Key: "espn", Primary: true}}, want: model.ErrValidation},
		"unknown key": {updates: []model.WeightUpdate{{Key: "pff", Weight: 4}, {Key: "cbs", Weight: 1}}, want: model.ErrNotFound},
		"repeated key": {updates: []model.WeightUpdate{{Key: "pff", Weight: 4, Primary: true}, {Key: "pff", Weight: 3}}, want: model.ErrValidation},
	}
	for name, tc := range errTests {
		t.Run(name, func(t *testing.T) {
			assertErrorIs(t, c.SetWeights(ctx, tc.updates), tc.want)
		})
	}
	// The failed update must not have changed pff.
	if b := findBoard(t, c, "pff"); b.Weight != 1 {
		t.Errorf("failed update changed the weight to %f", b.Weight)
	}

	err = c.SetWeights(ctx, []model.WeightUpdate{
		{Key: "pff", Weight: 2, Primary: true},
		{Key: "espn", Weight: -1},
	})
	if err != nil {
		t.Fatalf("error setting weights: %v", err)
	}

	pff := findBoard(t, c, "pff")
	if !pff.Primary || pff.Weight != 2 {
		t.Errorf("pff incorrect, got: %+v", *pff)
	}
	if b := findBoard(t, c, "espn"); b.Weight != 0 {
		t.Errorf("negative weight should be clamped, got: %f", b.Weight)
	}
	if findBoard(t, c, model.BoardKeyConsensus).Primary {
		t.Errorf("only one board can be primary")
	}
	assertRank(t, findPlayer(t, c, "Caleb Downs"), 1)
}

func TestRemoveBoard(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	if _, err := c.ImportConsensusBoard(ctx, rankEntries("Arch Manning", "Caleb Downs")); err != nil {
		t.Fatalf("error importing consensus board: %v", err)
	}
	_, err := c.ImportExternalBoards(ctx, []model.ExternalBoard{
		{Name: "Zeta Board", Text: "1. Caleb Downs\n2. Arch Manning"},
		{Name: "Alpha Board", Text: "1. Arch Manning"},
	}, model.WeightingEqual)
	if err != nil {
		t.Fatalf("error importing boards: %v", err)
	}
	if err := c.SetWeights(ctx, []model.WeightUpdate{{Key: "zeta-board", Weight: 1, Primary: true}}); err != nil {
		t.Fatalf("error setting weights: %v", err)
	}
	assertRank(t, findPlayer(t, c, "Caleb Downs"), 1)

	assertErrorIs(t, c.RemoveBoard(ctx, model.BoardKeyConsensus), model.ErrPermission)
	assertErrorIs(t, c.RemoveBoard(ctx, "missing"), model.ErrNotFound)

	if err := c.RemoveBoard(ctx, "zeta-board"); err != nil {
		t.Fatalf("error removing board: %v", err)
	}

	boards, err := c.ListBoards(ctx)
	if err != nil {
		t.Fatalf("error listing boards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards left, got: %d", len(boards))
	}
	// The first remaining board by name takes over.
	if boards[0].Key != "alpha-board" || !boards[0].Primary {
		t.Errorf("expected alpha-board to be primary, got: %+v", boards[0])
	}
	if boards[1].Primary {
		t.Errorf("only one board can be primary")
	}
	assertRank(t, findPlayer(t, c, "Arch Manning"), 1)
}
