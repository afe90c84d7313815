package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Timestamps are stored as Unix nanoseconds so both drivers read them back
// the same way.
const Schema = `
CREATE TABLE IF NOT EXISTS validations (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT '',

    user_text_hash TEXT NOT NULL DEFAULT '',
    graph_hash TEXT NOT NULL DEFAULT '',

    valid BOOLEAN NOT NULL,
    policy_count INTEGER NOT NULL DEFAULT 0,
    violation_count INTEGER NOT NULL DEFAULT 0,
    warning_count INTEGER NOT NULL DEFAULT 0,
    issue_types TEXT NOT NULL DEFAULT '[]',

    report TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validations_created_at ON validations(created_at);
CREATE INDEX IF NOT EXISTS idx_validations_source ON validations(source);
CREATE INDEX IF NOT EXISTS idx_validations_graph_hash ON validations(graph_hash);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, ?)
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const selectColumns = `id, request_id, created_at, duration_ns, source,
    user_text_hash, graph_hash,
    valid, policy_count, violation_count, warning_count, issue_types,
    report`
