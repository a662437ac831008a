package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CountGroups returns the number of stored groups with the given id, or of
// all groups when id is empty.
func (s *Store) CountGroups(ctx context.Context, id string) (int, error) {
	var (
		n   int
		err error
	)
	if id == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_icon`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_icon WHERE id = ?`, id).Scan(&n)
	}
	if err != nil {
		return 0, failed("count groups", err)
	}
	return n, nil
}

// ListGroups returns every stored group sorted by category then ordering
func (s *Store) ListGroups(ctx context.Context) ([]GroupRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, repository, ordering, category
		   FROM group_icon
		  ORDER BY category ASC, ordering ASC`)
	if err != nil {
		return nil, failed("list groups", err)
	}
	defer rows.Close()

	var groups []GroupRecord
	for rows.Next() {
		var g GroupRecord
		if err := rows.Scan(&g.ID, &g.Name, &g.Repository, &g.Ordering, &g.Category); err != nil {
			return nil, failed("scan group", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, failed("list groups", err)
	}
	return groups, nil
}

// GetGroup returns one stored group
func (s *Store) GetGroup(ctx context.Context, id string) (*GroupRecord, error) {
	var g GroupRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, repository, ordering, category FROM group_icon WHERE id = ?`, id,
	).Scan(&g.ID, &g.Name, &g.Repository, &g.Ordering, &g.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, failed("get group", err)
	}
	return &g, nil
}

// InsertGroup registers a group. A duplicate id returns ErrAlreadyExists.
func (s *Store) InsertGroup(ctx context.Context, g GroupRecord) error {
	return insertGroup(ctx, s.db, g)
}

func insertGroup(ctx context.Context, q DBTX, g GroupRecord) error {
	if g.ID == "" {
		return fmt.Errorf("group id is required")
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO group_icon (id, name, repository, ordering, category) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Repository, g.Ordering, g.Category)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("group %s: %w", g.ID, ErrAlreadyExists)
		}
		return failed("insert group", err)
	}
	return nil
}

// DeleteGroup removes a group registration
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM group_icon WHERE id = ?`, id)
	if err != nil {
		return failed("delete group", err)
	}
	return expectRow(res, "group "+id)
}

// UpdateGroupOrdering moves a group to a new position in its category
func (s *Store) UpdateGroupOrdering(ctx context.Context, id string, ordering int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE group_icon SET ordering = ? WHERE id = ?`, ordering, id)
	if err != nil {
		return failed("update group ordering", err)
	}
	return expectRow(res, "group "+id)
}

// IncrementOrdering shifts every group with from <= ordering <= to in the
// category one position down the list.
func (s *Store) IncrementOrdering(ctx context.Context, from, to, category int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE group_icon SET ordering = ordering + 1
		  WHERE ordering >= ? AND ordering <= ? AND category = ?`,
		from, to, category)
	if err != nil {
		return failed("increment ordering", err)
	}
	return nil
}

// DecrementOrdering shifts every group with from <= ordering <= to in the
// category one position up the list.
func (s *Store) DecrementOrdering(ctx context.Context, from, to, category int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE group_icon SET ordering = ordering - 1
		  WHERE ordering >= ? AND ordering <= ? AND category = ?`,
		from, to, category)
	if err != nil {
		return failed("decrement ordering", err)
	}
	return nil
}

// SeedGroups registers the given groups when no group is stored yet. It
// returns the number of groups inserted.
func (s *Store) SeedGroups(ctx context.Context, groups []GroupRecord) (int, error) {
	inserted := 0
	err := WithTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_icon`).Scan(&n); err != nil {
			return failed("count groups", err)
		}
		if n > 0 {
			return nil
		}
		for _, g := range groups {
			if err := insertGroup(ctx, tx, g); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return failed("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
