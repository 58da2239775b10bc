package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS campaigns (
	id                TEXT PRIMARY KEY,
	from_name         TEXT NOT NULL,
	offer             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	started_at        DATETIME NOT NULL,
	sent              INTEGER NOT NULL DEFAULT 0,
	skipped           INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	generation_failed INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_campaigns_started_at ON campaigns(started_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
