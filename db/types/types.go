package types

// Migration is a single embedded SQL migration. SQL holds both directions separated by
// the "-- +migrate Up" marker, Down first.
type Migration struct {
	ID  string
	SQL string
	// Prefix is prepended to the ID and replaces the /*dbprefix*/ marker inside SQL
	Prefix string
}
