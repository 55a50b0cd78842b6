package controller

import (
	"context"
	"testing"

	"github.com/mww/draft_scout/model"
	"github.com/mww/draft_scout/testutils"
)

func intPtr(i int) *int {
	return &i
}

func TestCalculateEffectiveRanks(t *testing.T) {
	players := []model.Player{
		{ID: 1, Name: "Arch Manning", Position: "QB"},
		{ID: 2, Name: "Caleb Downs", Position: "S"},
		{ID: 3, Name: "LT Overton", Position: "EDGE/DL"},
		{ID: 4, Name: "Rueben Bain Jr.", Position: "EDGE", TankathonRank: intPtr(2)},
		{ID: 5, Name: "Jeremiyah Love", TankathonRank: intPtr(1)},
		{ID: 6, Name: "Nobody"},
	}

	tests := map[string]struct {
		boards  []model.RankBoard
		ranks   []model.BoardRank
		want    map[int64]int
		wantPos map[int64]string
	}{
		"primary board wins": {
			boards: []model.RankBoard{
				{ID: 10, Weight: 1, Primary: true},
				{ID: 11, Weight: 5},
			},
			ranks: []model.BoardRank{
				{PlayerID: 1, BoardID: 10, Rank: 3},
				{PlayerID: 2, BoardID: 10, Rank: 1},
				{PlayerID: 1, BoardID: 11, Rank: 1},
				{PlayerID: 2, BoardID: 11, Rank: 9},
				// Not on the primary board, so its average counts.
				{PlayerID: 3, BoardID: 11, Rank: 2},
			},
			// Downs and Love tie at 1, Overton and Bain at 2, both by name.
			want:    map[int64]int{2: 1, 5: 2, 3: 3, 4: 4, 1: 5, 6: 6},
			wantPos: map[int64]string{2: "1", 3: "1", 5: "", 4: "2", 1: "1", 6: ""},
		},
		"weighted average": {
			boards: []model.RankBoard{
				{ID: 10, Weight: 3},
				{ID: 11, Weight: 1},
				// A board without weight is ignored.
				{ID: 12, Weight: 0},
			},
			ranks: []model.BoardRank{
				{PlayerID: 1, BoardID: 10, Rank: 4},
				{PlayerID: 1, BoardID: 11, Rank: 8},
				{PlayerID: 2, BoardID: 10, Rank: 5},
				{PlayerID: 2, BoardID: 11, Rank: 1},
				{PlayerID: 6, BoardID: 12, Rank: 1},
			},
			// Love 1 and Bain 2 on fallback, Downs 4, Arch 5. The rest by name.
			want: map[int64]int{5: 1, 4: 2, 2: 3, 1: 4, 3: 5, 6: 6},
		},
		"ties by name": {
			boards: []model.RankBoard{{ID: 10, Weight: 1}, {ID: 11, Weight: 1}},
			ranks: []model.BoardRank{
				{PlayerID: 3, BoardID: 10, Rank: 1},
				{PlayerID: 3, BoardID: 11, Rank: 2},
				{PlayerID: 1, BoardID: 10, Rank: 2},
				{PlayerID: 1, BoardID: 11, Rank: 1},
			},
			want: map[int64]int{5: 1, 1: 2, 3: 3, 4: 4, 2: 5, 6: 6},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			updates := calculateEffectiveRanks(players, tc.boards, tc.ranks)
			if len(updates) != len(players) {
				t.Fatalf("expected an update for every player, got: %d", len(updates))
			}
			for _, u := range updates {
				if u.Rank == nil {
					t.Errorf("player %d has no rank", u.PlayerID)
					continue
				}
				if want := tc.want[u.PlayerID]; *u.Rank != want {
					t.Errorf("rank of player %d incorrect, wanted: %d, got: %d", u.PlayerID, want, *u.Rank)
				}
				if tc.wantPos == nil {
					continue
				}
				if want := tc.wantPos[u.PlayerID]; u.PositionalRank != want {
					t.Errorf("positional rank of player %d incorrect, wanted: '%s', got: '%s'", u.PlayerID, want, u.PositionalRank)
				}
			}
		})
	}
}

func TestCalculateEffectiveRanks_weightedRank(t *testing.T) {
	players := []model.Player{{ID: 1, Name: "Arch Manning"}, {ID: 2, Name: "Caleb Downs", TankathonRank: intPtr(3)}}
	boards := []model.RankBoard{{ID: 10, Weight: 2.5}, {ID: 11, Weight: 0.5}}
	ranks := []model.BoardRank{
		{PlayerID: 1, BoardID: 10, Rank: 1},
		{PlayerID: 1, BoardID: 11, Rank: 4},
	}

	updates := calculateEffectiveRanks(players, boards, ranks)
	for _, u := range updates {
		switch u.PlayerID {
		case 1:
			if u.WeightedRank == nil || *u.WeightedRank != 1.5 {
				t.Errorf("weighted rank incorrect, wanted: 1.5, got: %v", u.WeightedRank)
			}
		case 2:
			if u.WeightedRank != nil {
				t.Errorf("a player on no board should have no weighted rank, got: %v", *u.WeightedRank)
			}
		}
	}
}

func TestPrimaryBoardThenFallbackRank(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	addPlayer(t, c, model.NewPlayer{Name: "Primary Prospect"})
	addPlayer(t, c, model.NewPlayer{Name: "Fallback Prospect", Rank: intPtr(5)})

	res, err := c.ImportConsensusBoard(ctx, []model.RankEntry{
		{Rank: 1, Name: "Primary Prospect", Position: "QB", School: "Test U"},
	})
	if err != nil {
		t.Fatalf("error importing consensus board: %v", err)
	}
	if res.Matched != 1 || res.Created != 0 || res.Skipped != 0 {
		t.Errorf("import result incorrect, got: %+v", *res)
	}

	assertRank(t, findPlayer(t, c, "Primary Prospect"), 1)
	assertRank(t, findPlayer(t, c, "Fallback Prospect"), 2)

	if !findBoard(t, c, model.BoardKeyConsensus).Primary {
		t.Errorf("the consensus board should be primary when no other board is")
	}
}

func TestRecalculateRanks_positional(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	testutils.InsertTestPlayers(c.db)
	addPlayer(t, c, model.NewPlayer{Name: "Unranked Athlete"})

	_, err := c.ImportConsensusBoard(ctx, rankEntries(
		testutils.ArchManning.Name,
		testutils.RuebenBain.Name,
		testutils.LTOverton.Name,
		testutils.JeremiyahLove.Name,
		testutils.CalebDowns.Name,
	))
	if err != nil {
		t.Fatalf("error importing consensus board: %v", err)
	}
	if err := c.RecalculateRanks(ctx); err != nil {
		t.Fatalf("error recalculating ranks: %v", err)
	}

	tests := map[string]struct {
		rank int
		pos  string
	}{
		testutils.ArchManning.Name:   {rank: 1, pos: "1"},
		testutils.RuebenBain.Name:    {rank: 2, pos: "1"},
		testutils.LTOverton.Name:     {rank: 3, pos: "2"},
		testutils.JeremiyahLove.Name: {rank: 4, pos: "1"},
		testutils.CalebDowns.Name:    {rank: 5, pos: "1"},
		"Unranked Athlete":           {rank: 6, pos: ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p := findPlayer(t, c, name)
			assertRank(t, p, tc.rank)
			if p.PositionalRank != tc.pos {
				t.Errorf("positional rank incorrect, wanted: '%s', got: '%s'", tc.pos, p.PositionalRank)
			}
		})
	}
}
