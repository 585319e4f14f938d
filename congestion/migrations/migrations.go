package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/0xPolygon/lanebridge/db"
	"github.com/0xPolygon/lanebridge/db/types"
	"github.com/0xPolygon/lanebridge/log"
)

//go:embed congestion0001.sql
var mig001 string

var Migrations = []types.Migration{
	{
		ID:  "congestion0001",
		SQL: mig001,
	},
}

func RunMigrations(logger *log.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(logger, database, Migrations)
}
