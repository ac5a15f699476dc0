package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/predicate/internal/schema"
)

// ErrNotFound is returned when no filter has the requested name.
var ErrNotFound = errors.New("store: filter not found")

// Filter is one saved filter document.
type Filter struct {
	Name        string    `json:"name"`
	RootID      string    `json:"root_id"`
	Fingerprint string    `json:"fingerprint"`
	Document    []byte    `json:"-"`
	Seq         int64     `json:"seq"`
	SavedAt     time.Time `json:"saved_at"`
}

// Save writes doc under name, replacing any filter already saved there.
// doc must be a root compound document that passes the CUE schema.
func (s *Store) Save(ctx context.Context, name string, doc []byte, fingerprint string) (Filter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Filter{}, errors.New("save filter: name is required")
	}
	if err := schema.ValidateRoot(doc); err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, doc); err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}
	var head struct {
		ID string `json:"Id"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filters (name, root_id, fingerprint, document, seq, saved_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM filters), ?)
		ON CONFLICT(name) DO UPDATE SET
			root_id = excluded.root_id,
			fingerprint = excluded.fingerprint,
			document = excluded.document,
			seq = excluded.seq,
			saved_at = excluded.saved_at
	`,
		name,
		head.ID,
		fingerprint,
		compact.String(),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Filter{}, fmt.Errorf("save filter %q: %w", name, err)
	}

	return s.Load(ctx, name)
}

// Load returns the filter saved under name, or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (Filter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, root_id, fingerprint, document, seq, saved_at
		FROM filters
		WHERE name = ?
	`, strings.TrimSpace(name))

	f, err := scanFilter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Filter{}, fmt.Errorf("load filter %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Filter{}, fmt.Errorf("load filter %q: %w", name, err)
	}
	return f, nil
}

// List returns every saved filter ordered by name.
// Returns an empty slice (not nil) when the library is empty.
func (s *Store) List(ctx context.Context) ([]Filter, error) {
	return s.queryFilters(ctx, `
		SELECT name, root_id, fingerprint, document, seq, saved_at
		FROM filters
		ORDER BY name COLLATE BINARY ASC
	`)
}

// History returns every saved filter in save order.
func (s *Store) History(ctx context.Context) ([]Filter, error) {
	return s.queryFilters(ctx, `
		SELECT name, root_id, fingerprint, document, seq, saved_at
		FROM filters
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`)
}

// FindByFingerprint returns the filters whose trees hash to fingerprint,
// ordered by name.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) ([]Filter, error) {
	return s.queryFilters(ctx, `
		SELECT name, root_id, fingerprint, document, seq, saved_at
		FROM filters
		WHERE fingerprint = ?
		ORDER BY name COLLATE BINARY ASC
	`, fingerprint)
}

// Delete removes the filter saved under name, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete filter %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) queryFilters(ctx context.Context, query string, args ...any) ([]Filter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	filters := []Filter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filters: %w", err)
	}
	return filters, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFilter(row scanner) (Filter, error) {
	var (
		f       Filter
		doc     string
		savedAt string
	)
	if err := row.Scan(&f.Name, &f.RootID, &f.Fingerprint, &doc, &f.Seq, &savedAt); err != nil {
		return Filter{}, err
	}
	f.Document = []byte(doc)

	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Filter{}, fmt.Errorf("scan filter %q: saved_at: %w", f.Name, err)
	}
	f.SavedAt = t
	return f, nil
}
