package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/db/types"
	"github.com/0xPolygon/lanebridge/log"
)

//go:embed ledger0001.sql
var mig001 string

//go:embed ledger0002.sql
var mig002 string

var Migrations = []types.Migration{
	{
		ID:  "ledger0001",
		SQL: mig001,
	},
	{
		ID:  "ledger0002",
		SQL: mig002,
	},
}

func RunMigrations(logger *log.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(logger, database, Migrations)
}
