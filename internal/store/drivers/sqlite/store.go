package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	_ "modernc.org/sqlite"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repo code serves both transactional and plain access.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; one pooled connection also keeps
	// transactions and :memory: databases on the same connection.
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Rollback is a no-op after a successful commit.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users             { return &usersRepo{db: s.db} }
func (s *Store) Courses() store.Courses         { return &coursesRepo{db: s.db} }
func (s *Store) Sections() store.Sections       { return &sectionsRepo{db: s.db} }
func (s *Store) Lessons() store.Lessons         { return &lessonsRepo{db: s.db} }
func (s *Store) Blogs() store.Blogs             { return &blogsRepo{db: s.db} }
func (s *Store) Enrollments() store.Enrollments { return &enrollmentsRepo{db: s.db} }

// txStore scopes the repositories to an open transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }
func (t *txStore) Courses() store.Courses         { return &coursesRepo{db: t.tx} }
func (t *txStore) Sections() store.Sections       { return &sectionsRepo{db: t.tx} }
func (t *txStore) Lessons() store.Lessons         { return &lessonsRepo{db: t.tx} }
func (t *txStore) Blogs() store.Blogs             { return &blogsRepo{db: t.tx} }
func (t *txStore) Enrollments() store.Enrollments { return &enrollmentsRepo{db: t.tx} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict translates a sqlite unique-constraint violation into the
// driver-agnostic sentinel.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// affectedOrNotFound turns a zero-row UPDATE/DELETE into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
