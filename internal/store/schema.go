package store

const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT 1,
	date_joined DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS raters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	bio TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS auth_tokens (
	key TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS artists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	founded_year INTEGER NOT NULL,
	creator_id INTEGER NOT NULL REFERENCES raters(id)
);

CREATE TABLE IF NOT EXISTS genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS songs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	year INTEGER NOT NULL,
	artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
	creator_id INTEGER NOT NULL REFERENCES raters(id),
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS song_genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS song_sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	service TEXT NOT NULL,
	is_primary BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	creator_id INTEGER NOT NULL REFERENCES raters(id),
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS list_songs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS list_favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	rater_id INTEGER NOT NULL REFERENCES raters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	rating INTEGER NOT NULL,
	review TEXT NOT NULL,
	song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	rater_id INTEGER NOT NULL REFERENCES raters(id),
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_songs_artist_id ON songs(artist_id);
CREATE INDEX IF NOT EXISTS idx_song_genres_song_id ON song_genres(song_id);
CREATE INDEX IF NOT EXISTS idx_song_sources_song_id ON song_sources(song_id);
CREATE INDEX IF NOT EXISTS idx_list_songs_list_id ON list_songs(list_id);
CREATE INDEX IF NOT EXISTS idx_list_favorites_list_id ON list_favorites(list_id);
CREATE INDEX IF NOT EXISTS idx_ratings_song_id ON ratings(song_id);
CREATE INDEX IF NOT EXISTS idx_ratings_rater_id ON ratings(rater_id);
`

const PostgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	date_joined TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS raters (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	bio TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS auth_tokens (
	key TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS artists (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	founded_year INTEGER NOT NULL,
	creator_id BIGINT NOT NULL REFERENCES raters(id)
);

CREATE TABLE IF NOT EXISTS genres (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS songs (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	year INTEGER NOT NULL,
	artist_id BIGINT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
	creator_id BIGINT NOT NULL REFERENCES raters(id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS song_genres (
	id BIGSERIAL PRIMARY KEY,
	song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	genre_id BIGINT NOT NULL REFERENCES genres(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS song_sources (
	id BIGSERIAL PRIMARY KEY,
	song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	service TEXT NOT NULL,
	is_primary BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS lists (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	creator_id BIGINT NOT NULL REFERENCES raters(id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS list_songs (
	id BIGSERIAL PRIMARY KEY,
	list_id BIGINT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS list_favorites (
	id BIGSERIAL PRIMARY KEY,
	list_id BIGINT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	rater_id BIGINT NOT NULL REFERENCES raters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ratings (
	id BIGSERIAL PRIMARY KEY,
	rating INTEGER NOT NULL,
	review TEXT NOT NULL,
	song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	rater_id BIGINT NOT NULL REFERENCES raters(id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_songs_artist_id ON songs(artist_id);
CREATE INDEX IF NOT EXISTS idx_song_genres_song_id ON song_genres(song_id);
CREATE INDEX IF NOT EXISTS idx_song_sources_song_id ON song_sources(song_id);
CREATE INDEX IF NOT EXISTS idx_list_songs_list_id ON list_songs(list_id);
CREATE INDEX IF NOT EXISTS idx_list_favorites_list_id ON list_favorites(list_id);
CREATE INDEX IF NOT EXISTS idx_ratings_song_id ON ratings(song_id);
CREATE INDEX IF NOT EXISTS idx_ratings_rater_id ON ratings(rater_id);
`

// The sentinel pair owns content whose creator account was deleted. Its
// password can never match a pbkdf2 hash and the user is inactive.
const seedSentinel = `
INSERT INTO users (id, username, email, password, first_name, last_name, is_active, date_joined)
VALUES (1, 'deleted', '', '!', '', '', FALSE, CURRENT_TIMESTAMP)
ON CONFLICT DO NOTHING;

INSERT INTO raters (id, user_id, bio)
VALUES (1, 1, 'This account has been deleted.')
ON CONFLICT DO NOTHING;
`

const postgresResyncSequences = `
SELECT setval(pg_get_serial_sequence('users', 'id'), GREATEST((SELECT MAX(id) FROM users), 1));
SELECT setval(pg_get_serial_sequence('raters', 'id'), GREATEST((SELECT MAX(id) FROM raters), 1));
`
