package database

func (d *Database) RunMigrations() error {
	for _, m := range migrations {
		if _, err := d.sqlx.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		display_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS oauth_credentials (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		provider VARCHAR(50) NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		token_expires_at TIMESTAMPTZ NOT NULL,
		provider_email VARCHAR(255) NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, provider)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location VARCHAR(200) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NULL,
		longitude DOUBLE PRECISION NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		original_text TEXT NOT NULL DEFAULT '',
		slug VARCHAR(255) NOT NULL DEFAULT '',
		google_event_id VARCHAR(255) NULL,
		synced_to_google BOOLEAN NOT NULL DEFAULT FALSE,
		color_id VARCHAR(10) NULL,
		guest_emails TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_user_start ON events (user_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS llm_parsing_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NULL REFERENCES users (id) ON DELETE SET NULL,
		input_text TEXT NOT NULL,
		input_text_length INT NOT NULL,
		llm_provider VARCHAR(50) NOT NULL,
		llm_model VARCHAR(100) NOT NULL,
		success BOOLEAN NOT NULL DEFAULT FALSE,
		response_time_ms DOUBLE PRECISION NULL,
		error_type VARCHAR(50) NULL,
		error_message TEXT NULL,
		parsed_data JSONB NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_parsing_logs_created ON llm_parsing_logs (created_at DESC)`,
}
