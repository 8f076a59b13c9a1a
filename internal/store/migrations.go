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

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS board_columns (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_columns_user_position ON board_columns(user_id, position);

CREATE TABLE IF NOT EXISTS categories (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '#007bff',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);

CREATE TABLE IF NOT EXISTS cards (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	category_id      TEXT REFERENCES categories(id) ON DELETE SET NULL,
	column_id        TEXT NOT NULL REFERENCES board_columns(id),
	position         INTEGER NOT NULL DEFAULT 0,
	duration_minutes INTEGER NOT NULL DEFAULT 0 CHECK(duration_minutes >= 0),
	assigned_date    DATETIME NOT NULL,
	archived         INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	archived_at      DATETIME,
	timer_state      TEXT NOT NULL DEFAULT 'none'
		CHECK(timer_state IN ('none', 'running', 'paused', 'stopped')),
	time_spent_ms    INTEGER NOT NULL DEFAULT 0 CHECK(time_spent_ms >= 0),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cards_user_archived ON cards(user_id, archived);
CREATE INDEX IF NOT EXISTS idx_cards_column ON cards(column_id);
CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS dashboard_settings (
	user_id              TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	section_display_mode TEXT NOT NULL DEFAULT 'cards_only'
		CHECK(section_display_mode IN ('cards_only', 'cards_and_duration')),
	updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS column_settings (
	user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	column_id           TEXT NOT NULL REFERENCES board_columns(id) ON DELETE CASCADE,
	column_display_mode TEXT NOT NULL DEFAULT 'category'
		CHECK(column_display_mode IN ('category', 'date')),
	count_display_type  TEXT NOT NULL DEFAULT 'cards'
		CHECK(count_display_type IN ('cards', 'duration')),
	show_card_duration  INTEGER NOT NULL DEFAULT 1 CHECK(show_card_duration IN (0, 1)),
	updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, column_id)
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
