// Package testutil provides an in-memory SQLite schema mirroring the
// PostgreSQL migrations, plus seeding helpers for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

var schema = []string{
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         VARCHAR(255) NOT NULL,
		nickname      VARCHAR(50)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME,
		updated_at    DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_users_email ON users (email)`,
	`CREATE UNIQUE INDEX idx_users_nickname ON users (nickname)`,
	`CREATE TABLE posts (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id            INTEGER      NOT NULL REFERENCES users (id),
		type               VARCHAR(20)  NOT NULL DEFAULT 'GENERAL',
		title              VARCHAR(200) NOT NULL,
		content            TEXT         NOT NULL DEFAULT '',
		isbn               VARCHAR(20)  NOT NULL DEFAULT '',
		max_members        INTEGER,
		recruitment_status VARCHAR(20),
		created_at         DATETIME,
		updated_at         DATETIME,
		CHECK (type IN ('GENERAL', 'RECRUITMENT')),
		CHECK (max_members IS NULL OR max_members >= 1)
	)`,
	`CREATE TABLE teams (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id         INTEGER      NOT NULL REFERENCES posts (id) DEFERRABLE INITIALLY DEFERRED,
		status          VARCHAR(20)  NOT NULL DEFAULT 'RECRUITING',
		title           VARCHAR(200) NOT NULL,
		content         TEXT         NOT NULL DEFAULT '',
		isbn            VARCHAR(20)  NOT NULL DEFAULT '',
		leader_nickname VARCHAR(50)  NOT NULL DEFAULT '',
		created_at      DATETIME,
		updated_at      DATETIME,
		CHECK (status IN ('RECRUITING', 'ACTIVE', 'CLOSED'))
	)`,
	`CREATE UNIQUE INDEX idx_teams_post_id ON teams (post_id)`,
	`CREATE TABLE team_members (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id   INTEGER     NOT NULL REFERENCES teams (id),
		user_id   INTEGER     NOT NULL REFERENCES users (id),
		role      VARCHAR(10) NOT NULL,
		joined_at DATETIME,
		CHECK (role IN ('LEADER', 'MEMBER'))
	)`,
	`CREATE UNIQUE INDEX idx_team_members_user_team ON team_members (user_id, team_id)`,
	`CREATE UNIQUE INDEX idx_team_members_single_leader ON team_members (team_id) WHERE role = 'LEADER'`,
	`CREATE TABLE team_applications (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER     NOT NULL REFERENCES users (id),
		post_id      INTEGER     NOT NULL REFERENCES posts (id),
		status       VARCHAR(10) NOT NULL DEFAULT 'PENDING',
		message      TEXT        NOT NULL DEFAULT '',
		applied_at   DATETIME,
		processed_at DATETIME,
		CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED'))
	)`,
	`CREATE UNIQUE INDEX idx_team_applications_user_post ON team_applications (user_id, post_id)`,
	`CREATE TABLE team_posts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id    INTEGER      NOT NULL REFERENCES teams (id),
		user_id    INTEGER      NOT NULL REFERENCES users (id),
		title      VARCHAR(200) NOT NULL,
		content    TEXT         NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE team_comments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		team_post_id INTEGER NOT NULL REFERENCES team_posts (id),
		user_id      INTEGER NOT NULL REFERENCES users (id),
		content      TEXT    NOT NULL,
		created_at   DATETIME,
		updated_at   DATETIME
	)`,
}

// NewDB opens an isolated in-memory database with foreign keys enforced and
// the full schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the shared in-memory database alive and
	// serializes writers the way the team row lock does on PostgreSQL
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// SeedUser inserts a user and returns its id.
func SeedUser(t testing.TB, db *gorm.DB, nickname string) int64 {
	t.Helper()

	now := time.Now()
	row := map[string]interface{}{
		"email":         nickname + "@example.com",
		"nickname":      nickname,
		"password_hash": "x",
		"created_at":    now,
		"updated_at":    now,
	}
	require.NoError(t, db.Table("users").Create(row).Error)

	var id int64
	require.NoError(t, db.Table("users").Select("id").Where("nickname = ?", nickname).Scan(&id).Error)
	return id
}

// Count returns the number of rows in table matching the condition.
func Count(t testing.TB, db *gorm.DB, table string, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Where(query, args...).Count(&n).Error)
	return n
}
