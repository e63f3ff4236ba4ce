// Package store reads engagement records from SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/verte-zerg/engagecharts/internal/dataset"
	"github.com/verte-zerg/engagecharts/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for post records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the SQLite database and ensures the posts table exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, path: path}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// ErrNoPosts is returned when a database opened for reading has no posts
// table.
var ErrNoPosts = errors.New("no posts table")

// OpenReadOnly opens an existing database without creating or migrating
// anything in it.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'posts'`).Scan(&name)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoPosts)
		}
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY,
			platform TEXT NOT NULL,
			post_type TEXT NOT NULL,
			age_group TEXT NOT NULL,
			date TEXT NOT NULL,
			likes TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_age_group ON posts(age_group);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecords appends records in a single transaction.
func (s *Store) InsertRecords(ctx context.Context, records []model.Record) error {
	return s.writeRecords(ctx, records, false)
}

// ReplaceRecords swaps every stored post for records in a single
// transaction, so importing the same file twice does not duplicate rows.
func (s *Store) ReplaceRecords(ctx context.Context, records []model.Record) error {
	return s.writeRecords(ctx, records, true)
}

func (s *Store) writeRecords(ctx context.Context, records []model.Record, replace bool) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
			return err
		}
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (platform, post_type, age_group, date, likes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx, rec.Platform, rec.PostType, rec.AgeGroup, rec.Date, formatLikes(rec.Likes)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadDataset reads every post in insertion order and coerces it exactly
// like the CSV loader does.
func (s *Store) LoadDataset(ctx context.Context) (model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, post_type, age_group, date, CAST(likes AS TEXT) FROM posts ORDER BY id ASC`)
	if err != nil {
		return model.Dataset{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	ds := model.Dataset{Source: s.path}
	row := 0
	for rows.Next() {
		row++
		values := map[string]string{}
		var platform, postType, ageGroup, date, likes sql.NullString
		if err := rows.Scan(&platform, &postType, &ageGroup, &date, &likes); err != nil {
			return model.Dataset{}, err
		}
		values[dataset.ColPlatform] = platform.String
		values[dataset.ColPostType] = postType.String
		values[dataset.ColAgeGroup] = ageGroup.String
		values[dataset.ColDate] = date.String
		values[dataset.ColLikes] = likes.String
		rec, cerr := dataset.NewRecord(row, func(col string) string { return values[col] })
		if cerr != nil {
			ds.CoercionErrors = append(ds.CoercionErrors, *cerr)
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return model.Dataset{}, err
	}
	return ds, nil
}

// LoadFile opens the database at path read-only, reads its posts, and
// closes it.
func LoadFile(ctx context.Context, path string) (model.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Dataset{}, fmt.Errorf("failed to stat db: %w", err)
	}
	st, err := OpenReadOnly(ctx, path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			_ = cerr
		}
	}()
	return st.LoadDataset(ctx)
}

func formatLikes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
