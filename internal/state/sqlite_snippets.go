package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/snipsql/pkg/snippet"
)

// SaveSnippet inserts or replaces a snippet and its dependencies.
// A new snippet is appended after every stored one; replacing an existing
// snippet keeps its position.
func (s *SQLiteStore) SaveSnippet(ctx context.Context, sn snippet.Snippet) error {
	return s.SaveSnippets(ctx, []snippet.Snippet{sn})
}

// SaveSnippets saves snippets in order within a single transaction. If any
// save fails nothing is written.
func (s *SQLiteStore) SaveSnippets(ctx context.Context, snippets []snippet.Snippet) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sn := range snippets {
		if err := s.saveSnippetTx(ctx, tx, sn); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snippets: %w", err)
	}
	return nil
}

func (s *SQLiteStore) saveSnippetTx(ctx context.Context, tx *sql.Tx, sn snippet.Snippet) error {
	s.logger.Debug("saving snippet",
		slog.String("name", sn.Name),
		slog.Int("dependencies", len(sn.DependsOn)))

	_, err := tx.ExecContext(ctx, `
		INSERT INTO snippets (name, body, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM snippets))
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP`,
		sn.Name, sn.Body,
	)
	if err != nil {
		return fmt.Errorf("failed to save snippet %q: %w", sn.Name, err)
	}

	// Replace dependencies
	if _, err := tx.ExecContext(ctx, `DELETE FROM snippet_dependencies WHERE snippet_name = ?`, sn.Name); err != nil {
		return fmt.Errorf("failed to delete existing dependencies: %w", err)
	}
	for i, dep := range sn.DependsOn {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snippet_dependencies (snippet_name, dependency_name, ordinal) VALUES (?, ?, ?)`,
			sn.Name, dep, i,
		); err != nil {
			return fmt.Errorf("failed to insert dependency: %w", err)
		}
	}
	return nil
}

// SaveRegistry saves every snippet of r in insertion order, in one transaction.
func (s *SQLiteStore) SaveRegistry(ctx context.Context, r *snippet.Registry) error {
	return s.SaveSnippets(ctx, r.Snippets())
}

// LoadRegistry rebuilds a registry from the stored snippets, in position order.
// Every row goes through Registry.Store, so a row that breaks the identifier
// rules fails the load.
func (s *SQLiteStore) LoadRegistry(ctx context.Context) (*snippet.Registry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	deps, err := s.loadDependencies(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, body FROM snippets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reg := snippet.NewRegistry()
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, fmt.Errorf("failed to scan snippet: %w", err)
		}
		if err := reg.Store(name, body, deps[name]...); err != nil {
			return nil, fmt.Errorf("stored snippet %q is invalid: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snippets: %w", err)
	}

	s.logger.Debug("loaded registry", slog.Int("snippets", reg.Len()))
	return reg, nil
}

func (s *SQLiteStore) loadDependencies(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT snippet_name, dependency_name FROM snippet_dependencies ORDER BY snippet_name, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	deps := make(map[string][]string)
	for rows.Next() {
		var name, dep string
		if err := rows.Scan(&name, &dep); err != nil {
			return nil, fmt.Errorf("failed to scan dependency: %w", err)
		}
		deps[name] = append(deps[name], dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dependencies: %w", err)
	}
	return deps, nil
}

// DeleteSnippet removes a snippet and its dependency rows. It reports whether
// the snippet existed.
func (s *SQLiteStore) DeleteSnippet(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snippets WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete snippet %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete snippet %q: %w", name, err)
	}
	return n > 0, nil
}

// SnippetCount returns the number of stored snippets.
func (s *SQLiteStore) SnippetCount(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count snippets: %w", err)
	}
	return n, nil
}
