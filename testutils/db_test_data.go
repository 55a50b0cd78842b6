package testutils

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mww/draft_scout/containers"
	"github.com/mww/draft_scout/db"
	"github.com/mww/draft_scout/model"
)

// EnvTestDBDriver selects the database the tests run against, "sqlite" (the
// default) or "postgres". Postgres needs docker for the test container.
const EnvTestDBDriver = "TEST_DB_DRIVER"

var (
	ArchManning = model.Player{
		Name:     "Arch Manning",
		Position: "QB",
		School:   "Texas",
	}
	RuebenBain = model.Player{
		Name:     "Rueben Bain Jr.",
		Position: "EDGE",
		School:   "Miami",
	}
	LTOverton = model.Player{
		Name:     "LT Overton",
		Position: "EDGE/DL",
		School:   "Alabama",
	}
	JeremiyahLove = model.Player{
		Name:     "Jeremiyah Love",
		Position: "RB",
		School:   "Notre Dame",
	}
	CalebDowns = model.Player{
		Name:     "Caleb Downs",
		Position: "S",
		School:   "Ohio State",
	}
)

// TestDB hands out empty databases to the tests of a package.
type TestDB struct {
	driver    string
	container *containers.DBContainer
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	tdb := &TestDB{
		driver: os.Getenv(EnvTestDBDriver),
		Clock:  clock.NewMock(),
	}
	// Start the mock clock at a realistic date.
	tdb.Clock.Add(time.Since(time.Unix(0, 0)))

	if tdb.driver == "postgres" {
		tdb.container = containers.NewDBContainer()
	}
	return tdb
}

// Empty returns a database without any rows. It is closed when the test ends.
// Postgres tests share one database so they must not run in parallel.
func (tdb *TestDB) Empty(t testing.TB) db.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var d db.DB
	var err error
	if tdb.container != nil {
		d, err = db.NewPostgres(ctx, tdb.container.ConnectionString(), tdb.Clock)
		if err == nil {
			err = tdb.container.Reset(ctx)
		}
	} else {
		d, err = db.NewSQLite(ctx, db.SQLiteMemory, tdb.Clock)
	}
	if err != nil {
		t.Fatalf("error creating test db: %v", err)
	}

	t.Cleanup(d.Close)
	return d
}

func (tdb *TestDB) Shutdown() {
	if tdb.container != nil {
		tdb.container.Shutdown()
	}
}

// InsertTestPlayers stores a copy of every fixture player and returns the copies
// with their ids set, in insertion order.
func InsertTestPlayers(d db.DB) []model.Player {
	players := []model.Player{
		ArchManning,
		RuebenBain,
		LTOverton,
		JeremiyahLove,
		CalebDowns,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.InTx(ctx, func(tx db.Tx) error {
		for i := range players {
			if err := tx.InsertPlayer(ctx, &players[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error inserting test players: %v", err)
	}

	return players
}
