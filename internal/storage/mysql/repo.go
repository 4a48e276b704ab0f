package mysql

import (
	"context"
	"database/sql"
	"strings"

	"review_ai/internal/domain"
)

func valStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Record(ctx context.Context, l domain.Lookup) error {
	_, err := r.db.ExecContext(ctx, insertLookupSQL,
		l.Key,
		string(l.Entry),
		l.State,
		valStr(l.Title),
		l.Status,
	)
	return err
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.Lookup, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, recentCompletedSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lookup
	for rows.Next() {
		var (
			l     domain.Lookup
			entry string
			title sql.NullString
		)
		if err := rows.Scan(&l.Key, &entry, &l.State, &title, &l.Status, &l.SeenAt); err != nil {
			return nil, err
		}
		l.Entry = domain.Entry(entry)
		if title.Valid {
			l.Title = title.String
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Nop is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, domain.Lookup) error          { return nil }
func (Nop) Recent(context.Context, int) ([]domain.Lookup, error) { return nil, nil }
