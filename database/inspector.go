package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "migration-integrity-checker/errors"
	"migration-integrity-checker/logging"
)

// Inspector answers catalog-level questions over a direct, read-only
// PostgreSQL connection. It backs the structural checker's deep check, where
// the REST API can only approximate (enum labels, columns of empty tables).
type Inspector struct {
	db     *sql.DB
	logger logging.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string, logger logging.Logger) (*Inspector, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseConnection, "failed to open database", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseConnection, "database ping failed", err)
	}

	return &Inspector{db: db, logger: logger}, nil
}

// Close releases the connection.
func (i *Inspector) Close() error {
	return i.db.Close()
}

// TableExists reports whether a table is present in the public schema.
func (i *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`

	var exists bool
	if err := i.db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
		return false, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "table existence query failed", err)
	}

	return exists, nil
}

// TableColumns lists the column names of a table in ordinal order.
func (i *Inspector) TableColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "column query failed", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "column scan failed", err)
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "column query failed", err)
	}

	return columns, nil
}

// EnumLabels reads the labels of an enumerated type out of the catalog, in
// sort order. A missing type yields an empty list, not an error.
func (i *Inspector) EnumLabels(ctx context.Context, enumName string) ([]string, error) {
	query := `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`

	rows, err := i.db.QueryContext(ctx, query, enumName)
	if err != nil {
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "enum label query failed", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "enum label scan failed", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "enum label query failed", err)
	}

	return labels, nil
}

// CountRows counts the rows of a table.
func (i *Inspector) CountRows(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(table))

	var count int64
	if err := i.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.NewDatabaseError(apperrors.ErrCodeDatabaseQuery, "row count query failed", err)
	}

	return count, nil
}
