// Seed sets up the database schema and optionally loads starter gesture
// templates. Run with -drop-tables for a fresh start in dev.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"heartline/internal/config"
	"heartline/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed templates")
	seedUser := flag.String("user", "", "User ID to own the seeded gesture templates")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: refusing to drop tables in production environment")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	if *seedUser == "" {
		log.Println("No -user given, skipping template seed")
		return
	}
	if err := seedTemplates(ctx, pool, *seedUser); err != nil {
		log.Fatalf("Failed to seed templates: %v", err)
	}
	log.Println("Seed complete")
}

// Tables in dependency order. person_preferences, notes, events, and
// gestures hang off people; messages hang off conversations.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		ai_mode TEXT NOT NULL DEFAULT 'general_assistant',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content JSONB NOT NULL,
		sequence INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT messages_conversation_sequence_key UNIQUE (conversation_id, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		relationship_type TEXT,
		birthday TIMESTAMPTZ,
		anniversary TIMESTAMPTZ,
		notes TEXT,
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		person_id UUID NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		source TEXT,
		occurred_at TIMESTAMPTZ,
		meta_json JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		person_id UUID NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		event_type TEXT,
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ,
		is_all_day BOOLEAN NOT NULL DEFAULT false,
		details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS gesture_templates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		effort TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS gestures (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL,
		person_id UUID REFERENCES people(id) ON DELETE CASCADE,
		template_id UUID REFERENCES gesture_templates(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		effort TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		due_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		repeat_mode TEXT,
		repeat_every_days INTEGER,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS person_preferences (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		person_id UUID NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		source_note_id UUID REFERENCES notes(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT person_preferences_person_kind_value_key UNIQUE (person_id, kind, value)
	)`,
	`CREATE TABLE IF NOT EXISTS notification_settings (
		user_id TEXT PRIMARY KEY,
		event_reminders BOOLEAN NOT NULL DEFAULT true,
		ai_suggestions BOOLEAN NOT NULL DEFAULT false,
		weekly_summary BOOLEAN NOT NULL DEFAULT true,
		email_reminders_enabled BOOLEAN NOT NULL DEFAULT true,
		email_address TEXT,
		lead_time TEXT NOT NULL DEFAULT '1-day',
		email_scope TEXT NOT NULL DEFAULT 'all',
		include_event_details BOOLEAN NOT NULL DEFAULT false,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id TEXT PRIMARY KEY,
		theme TEXT NOT NULL DEFAULT 'system',
		language TEXT NOT NULL DEFAULT 'en',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_conversations_user_updated ON conversations (user_id, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation_sequence ON messages (conversation_id, sequence)`,
	`CREATE INDEX IF NOT EXISTS idx_people_user ON people (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_person_created ON notes (person_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_events_person_start ON events (person_id, start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_gestures_user_status ON gestures (user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_gestures_user_due ON gestures (user_id, due_at)`,
}

func runSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range indexes {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Reverse dependency order
	tables := []string{
		"person_preferences",
		"gestures",
		"gesture_templates",
		"events",
		"notes",
		"people",
		"messages",
		"conversations",
		"notification_settings",
		"user_preferences",
	}
	for _, t := range tables {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+t+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

// starterTemplates give a new user something to work with on first login.
var starterTemplates = []struct {
	title, category, effort, description string
}{
	{"Send a good-morning text", "message", "low", "A short message to start their day"},
	{"Plan a surprise date night", "date", "high", "Book somewhere they have mentioned wanting to try"},
	{"Pick up their favorite snack", "gift", "low", "Small treat on the way home"},
	{"Write a handwritten note", "message", "medium", "A few sentences about why you appreciate them"},
	{"Cook their favorite meal", "quality-time", "medium", "Dinner at home, their pick"},
	{"Call just to check in", "quality-time", "low", "Ten minutes, no agenda"},
}

func seedTemplates(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	for _, t := range starterTemplates {
		_, err := pool.Exec(ctx, `
			INSERT INTO gesture_templates (user_id, title, category, effort, description)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (
				SELECT 1 FROM gesture_templates WHERE user_id = $1 AND title = $2
			)
		`, userID, t.title, t.category, t.effort, t.description)
		if err != nil {
			return err
		}
	}
	return nil
}
