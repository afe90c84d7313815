package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"

	"mercator-hq/odrlcheck/pkg/history"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite" or "sqlite3".
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		Driver:       DriverModernc,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements history.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies the pragmas and creates the
// schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverMattn {
		return nil, history.NewStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open(config.Driver, dsn(config))
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// dsn builds a data source name carrying the pragmas, so every pooled
// connection gets them. The two drivers spell pragmas differently.
func dsn(config *SQLiteConfig) string {
	busy := config.BusyTimeout.Milliseconds()
	var params []string
	switch config.Driver {
	case DriverMattn:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busy))
		if config.WALMode {
			params = append(params, "_journal_mode=WAL")
		}
	default:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", busy))
		if config.WALMode {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	}
	return config.Path + "?" + strings.Join(params, "&")
}

// initialize creates the schema and verifies its version.
func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion, time.Now().UnixNano()); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	issueTypes, err := json.Marshal(nonNil(record.IssueTypes))
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	var report any
	if len(record.Report) > 0 {
		report = string(record.Report)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validations (
			id, request_id, created_at, duration_ns, source,
			user_text_hash, graph_hash,
			valid, policy_count, violation_count, warning_count, issue_types,
			report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RequestID, record.CreatedAt.UnixNano(), int64(record.Duration), record.Source,
		record.UserTextHash, record.GraphHash,
		record.Valid, record.PolicyCount, record.ViolationCount, record.WarningCount, string(issueTypes),
		report,
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*history.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM validations WHERE id = ?", id)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, history.NewStorageError("sqlite", "get", err)
		}
		return nil, history.ErrNotFound
	}
	record, err := scanRow(rows)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "scan", err)
	}
	return record, nil
}

// List returns the records matching query.
func (s *SQLiteStorage) List(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	q := *query
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	where, args := buildWhereClause(&q)
	sqlQuery := "SELECT " + selectColumns + " FROM validations"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	// rowid breaks ties between records created in the same nanosecond.
	order := "DESC"
	if q.SortOrder == "asc" {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at %s, rowid %s LIMIT %d OFFSET %d", order, order, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "list", err)
	}
	return records, nil
}

// Count returns the number of records matching query.
func (s *SQLiteStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	where, args := buildWhereClause(query)
	sqlQuery := "SELECT COUNT(*) FROM validations"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore removes records created before cutoff.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM validations WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause returns the WHERE clause (without the keyword) and its arguments.
func buildWhereClause(q *history.Query) (string, []any) {
	var conditions []string
	var args []any

	if q.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, q.Until.UnixNano())
	}
	if q.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, q.Source)
	}
	if q.Valid != nil {
		conditions = append(conditions, "valid = ?")
		args = append(args, *q.Valid)
	}

	return strings.Join(conditions, " AND "), args
}

func scanRow(rows *sql.Rows) (*history.Record, error) {
	var (
		record     history.Record
		createdAt  int64
		durationNs int64
		issueTypes string
		report     sql.NullString
	)

	err := rows.Scan(
		&record.ID, &record.RequestID, &createdAt, &durationNs, &record.Source,
		&record.UserTextHash, &record.GraphHash,
		&record.Valid, &record.PolicyCount, &record.ViolationCount, &record.WarningCount, &issueTypes,
		&report,
	)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = time.Unix(0, createdAt).UTC()
	record.Duration = time.Duration(durationNs)
	if err := json.Unmarshal([]byte(issueTypes), &record.IssueTypes); err != nil {
		return nil, fmt.Errorf("decode issue_types: %w", err)
	}
	if report.Valid {
		record.Report = json.RawMessage(report.String)
	}
	return &record, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
