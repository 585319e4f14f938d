package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx wraps a SQL transaction with callbacks that run only after the outcome is known.
// Commit callbacks are the place to publish anything that must not escape an aborted block.
type Tx struct {
	*sql.Tx
	rollbackCallbacks []func()
	commitCallbacks   []func()
	savepoints        int
}

func NewTx(ctx context.Context, db *sql.DB) (*Tx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{
		Tx: tx,
	}, nil
}

func (s *Tx) AddRollbackCallback(cb func()) {
	s.rollbackCallbacks = append(s.rollbackCallbacks, cb)
}
func (s *Tx) AddCommitCallback(cb func()) {
	s.commitCallbacks = append(s.commitCallbacks, cb)
}

func (s *Tx) Commit() error {
	if err := s.Tx.Commit(); err != nil {
		return err
	}
	for _, cb := range s.commitCallbacks {
		cb()
	}
	return nil
}

func (s *Tx) Rollback() error {
	if err := s.Tx.Rollback(); err != nil {
		return err
	}
	for _, cb := range s.rollbackCallbacks {
		cb()
	}
	return nil
}

// Savepoint is a nested checkpoint inside a Tx. It is either released (its changes stay
// part of the enclosing transaction) or rolled back, leaving the enclosing transaction usable.
type Savepoint struct {
	tx   *Tx
	name string
	done bool
}

// Savepoint opens a new nested checkpoint
func (s *Tx) Savepoint() (*Savepoint, error) {
	s.savepoints++
	name := fmt.Sprintf("sp_%d", s.savepoints)
	if _, err := s.Exec("SAVEPOINT " + name); err != nil {
		return nil, fmt.Errorf("error creating savepoint %s: %w", name, err)
	}
	return &Savepoint{tx: s, name: name}, nil
}

// Release keeps the changes made since the savepoint was opened
func (sp *Savepoint) Release() error {
	if sp.done {
		return nil
	}
	sp.done = true
	if _, err := sp.tx.Exec("RELEASE SAVEPOINT " + sp.name); err != nil {
		return fmt.Errorf("error releasing savepoint %s: %w", sp.name, err)
	}
	return nil
}

// Rollback discards the changes made since the savepoint was opened
func (sp *Savepoint) Rollback() error {
	if sp.done {
		return nil
	}
	sp.done = true
	if _, err := sp.tx.Exec("ROLLBACK TO SAVEPOINT " + sp.name); err != nil {
		return fmt.Errorf("error rolling back to savepoint %s: %w", sp.name, err)
	}
	// ROLLBACK TO leaves the savepoint on the stack
	if _, err := sp.tx.Exec("RELEASE SAVEPOINT " + sp.name); err != nil {
		return fmt.Errorf("error releasing savepoint %s: %w", sp.name, err)
	}
	return nil
}
