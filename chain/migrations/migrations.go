package migrations

import (
	_ "embed"

	congestionmigrations "github.com/0xPolygon/lanebridge/congestion/migrations"
	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/db/types"
	ledgermigrations "github.com/0xPolygon/lanebridge/ledger/migrations"
	routermigrations "github.com/0xPolygon/lanebridge/router/migrations"
)

//go:embed chain0001.sql
var mig001 string

// All returns the migrations of every component sharing the chain database, in the
// order they must run
func All() []types.Migration {
	migs := []types.Migration{}
	migs = append(migs, ledgermigrations.Migrations...)
	migs = append(migs, congestionmigrations.Migrations...)
	migs = append(migs, routermigrations.Migrations...)
	return append(migs, types.Migration{ID: "chain0001", SQL: mig001})
}

func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, All())
}
