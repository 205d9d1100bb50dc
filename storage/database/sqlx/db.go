package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// DB runs the queries of every repository of this package, on postgres or sqlite3.
type DB struct {
	*sqlx.DB
	sb squirrel.StatementBuilderType
}

func New(db *sqlx.DB) *DB {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if db.DriverName() == "postgres" {
		format = squirrel.Dollar
	}
	return &DB{DB: db, sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insert runs the statement and returns the generated id.
func (db *DB) insert(ctx context.Context, q squirrel.InsertBuilder) (int64, error) {
	query, args, err := q.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building insert")
	}
	var id int64
	if err = db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// exec runs the statement and returns the number of affected rows.
func exec(ctx context.Context, ex execer, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building statement")
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *DB) selectRows(ctx context.Context, dest interface{}, q squirrel.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building select")
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// getRow returns sql.ErrNoRows when nothing matches.
func (db *DB) getRow(ctx context.Context, dest interface{}, q squirrel.SelectBuilder) error {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return errors.Wrap(err, "building select")
	}
	return db.GetContext(ctx, dest, query, args...)
}

func isUniqueViolation(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *pq.Error:
		return e.Code == "23505"
	case sqlite3.Error:
		return e.ExtendedCode == sqlite3.ErrConstraintUnique || e.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// JSON text columns: NULL for a nil value, the encoded value otherwise ([] stays []).

func encodeStrings(s []string) (null.String, error) {
	if s == nil {
		return null.String{}, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return null.String{}, err
	}
	return null.StringFrom(string(b)), nil
}

func decodeStrings(ns null.String) ([]string, error) {
	if !ns.Valid {
		return nil, nil
	}
	s := make([]string, 0)
	if err := json.Unmarshal([]byte(ns.String), &s); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeRaw(raw json.RawMessage) null.String {
	if raw == nil {
		return null.String{}
	}
	return null.StringFrom(string(raw))
}

func decodeRaw(ns null.String) json.RawMessage {
	if !ns.Valid {
		return nil
	}
	return json.RawMessage(ns.String)
}

