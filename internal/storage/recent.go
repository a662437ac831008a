package storage

import (
	"context"
	"fmt"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// DefaultRecentLimit is the number of recent stickers listed by default
const DefaultRecentLimit = 40

// CountRecent returns 1 when the sticker is in the recent table, 0 otherwise
func (s *Store) CountRecent(ctx context.Context, id string, kind sticker.Kind) (int, error) {
	return countRecent(ctx, s.db, id, kind)
}

func countRecent(ctx context.Context, q DBTX, id string, kind sticker.Kind) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recent_icon WHERE id = ? AND type = ?`, id, int(kind),
	).Scan(&n)
	if err != nil {
		return 0, failed("count recent", err)
	}
	return n, nil
}

// TouchRecent stamps a sticker as used now. The row is inserted when absent
// and its timestamp updated otherwise. Stamps are strictly increasing, so a
// touch within the same millisecond as the newest row still sorts first.
func (s *Store) TouchRecent(ctx context.Context, id string, kind sticker.Kind) error {
	if id == "" {
		return fmt.Errorf("sticker id is required")
	}

	return WithTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		var newest int64
		err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(touched_at), 0) FROM recent_icon`).Scan(&newest)
		if err != nil {
			return failed("latest recent", err)
		}
		touchedAt := max(toMillis(s.now()), newest+1)

		n, err := countRecent(ctx, tx, id, kind)
		if err != nil {
			return err
		}

		if n == 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO recent_icon (id, type, touched_at) VALUES (?, ?, ?)`,
				id, int(kind), touchedAt)
			if err != nil {
				return failed("insert recent", err)
			}
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE recent_icon SET touched_at = ? WHERE id = ? AND type = ?`,
			touchedAt, id, int(kind))
		if err != nil {
			return failed("update recent", err)
		}
		return nil
	})
}

// ListRecent returns at most limit stickers, most recently touched first
func (s *Store) ListRecent(ctx context.Context, limit int) ([]RecentEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, touched_at
		   FROM recent_icon
		  ORDER BY touched_at DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, failed("list recent", err)
	}
	defer rows.Close()

	var entries []RecentEntry
	for rows.Next() {
		var (
			e         RecentEntry
			kind      int
			touchedAt int64
		)
		if err := rows.Scan(&e.ID, &kind, &touchedAt); err != nil {
			return nil, failed("scan recent", err)
		}
		e.Kind = sticker.Kind(kind)
		e.TouchedAt = fromMillis(touchedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, failed("list recent", err)
	}
	return entries, nil
}

// DeleteRecent removes a sticker from the recent table
func (s *Store) DeleteRecent(ctx context.Context, id string, kind sticker.Kind) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recent_icon WHERE id = ? AND type = ?`, id, int(kind))
	if err != nil {
		return failed("delete recent", err)
	}
	return expectRow(res, "recent "+id)
}
