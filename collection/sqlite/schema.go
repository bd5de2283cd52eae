package sqlite

// Schema version for migration management
const SchemaVersion = 1

// SnapshotsTableSQL creates the key-value table holding one JSON-serialized
// snapshot or tombstone list per key.
const SnapshotsTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SchemaVersionTableSQL creates the schema version table for migration tracking
const SchemaVersionTableSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`
