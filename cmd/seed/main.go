package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/studyforest/study-forest-api/config"
	"github.com/studyforest/study-forest-api/internal/domain/entity"
	pginfra "github.com/studyforest/study-forest-api/internal/infrastructure/postgres"
	"github.com/studyforest/study-forest-api/pkg/helpers"
)

var demoEmojis = []struct {
	code  string
	count int
}{
	{"1f525", 5},
	{"1f44d", 3},
	{"1f389", 3},
	{"1f62e", 1},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolOptions{
		DSN:             cfg.PostgresDSN(),
		AppName:         cfg.AppName,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	email := "demo@studyforest.dev"
	password := "password123"
	nickname := "forest"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, nickname, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET nickname = EXCLUDED.nickname
		RETURNING id
	`, email, nickname, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	log.Printf("seeded user: id=%s email=%s password=%s", userID, email, password)

	studyID := uuid.NewString()
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO studies (id, owner_id, name, introduce, background_key, is_public)
			VALUES ($1, $2, $3, $4, $5, true)
		`, studyID, userID, "Go Reading Club", "We read one chapter of a Go book every week.", entity.BackgroundLeaf); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO study_members (study_id, user_id, role) VALUES ($1, $2, $3)
		`, studyID, userID, entity.RoleOwner); err != nil {
			return err
		}
		for _, delta := range []int{10, 25, -5} {
			if _, err := tx.Exec(ctx, `INSERT INTO point_logs (study_id, delta, reason) VALUES ($1, $2, 'seed')`, studyID, delta); err != nil {
				return err
			}
		}
		for _, e := range demoEmojis {
			var emojiID int64
			if err := tx.QueryRow(ctx, `
				INSERT INTO emojis (emoji_unified_code) VALUES ($1)
				ON CONFLICT (emoji_unified_code) DO UPDATE SET emoji_unified_code = EXCLUDED.emoji_unified_code
				RETURNING id
			`, e.code).Scan(&emojiID); err != nil {
				return err
			}
			for i := 0; i < e.count; i++ {
				if _, err := tx.Exec(ctx, `INSERT INTO study_emoji_reactions (study_id, emoji_id) VALUES ($1, $2)`, studyID, emojiID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to seed study: %v", err)
	}
	log.Printf("seeded study: id=%s owner=%s", studyID, userID)
}
