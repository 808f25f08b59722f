// Package sqlitestore provides a SQLite-based implementation of CommentRepository.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/runoshun/crew-talk/internal/domain"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 2

// Store implements domain.CommentRepository using a SQLite database.
// The connection is opened lazily so an uninitialized store has no file.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a Store for the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// IsInitialized checks if the database file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates the database file and schema.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	return migrate(db)
}

// Load retrieves the comments of one tab in stored order.
func (s *Store) Load(tab domain.Tab) ([]domain.Comment, error) {
	return s.query(`WHERE tab = ?`, string(tab.Resolve()))
}

// LoadAll retrieves every comment in stored order.
func (s *Store) LoadAll() ([]domain.Comment, error) {
	return s.query(``)
}

// Save replaces the stored collection inside one transaction.
func (s *Store) Save(comments []domain.Comment) error {
	db, err := s.ready()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM likes`); err != nil {
		return fmt.Errorf("clear likes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM replies`); err != nil {
		return fmt.Errorf("clear replies: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM comments`); err != nil {
		return fmt.Errorf("clear comments: %w", err)
	}

	insertComment, err := tx.Prepare(`
		INSERT INTO comments (id, position, tab, author, author_id, text, created, created_label,
			donation, likes, verified, pinned, liked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare comment insert: %w", err)
	}
	defer func() { _ = insertComment.Close() }()

	insertReply, err := tx.Prepare(`
		INSERT INTO replies (comment_id, id, position, author, author_id, text, created, created_label,
			likes, verified, liked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reply insert: %w", err)
	}
	defer func() { _ = insertReply.Close() }()

	insertLike, err := tx.Prepare(`
		INSERT INTO likes (comment_id, reply_id, actor_id, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare like insert: %w", err)
	}
	defer func() { _ = insertLike.Close() }()

	for i := range comments {
		c := &comments[i]
		var donation sql.NullFloat64
		if c.Donation != nil {
			donation = sql.NullFloat64{Float64: *c.Donation, Valid: true}
		}
		_, err := insertComment.Exec(c.ID, i, string(c.EffectiveTab()), c.AuthorHandle, c.AuthorID, c.Text,
			formatTime(c.Created), c.CreatedLabel, donation, c.LikeCount, c.Verified, c.Pinned, c.LikedBySelf)
		if err != nil {
			return fmt.Errorf("insert comment %s: %w", c.ID, err)
		}
		if err := insertLikers(insertLike, c.ID, "", c.LikedBy); err != nil {
			return err
		}
		for j := range c.Replies {
			r := &c.Replies[j]
			_, err := insertReply.Exec(c.ID, r.ID, j, r.AuthorHandle, r.AuthorID, r.Text,
				formatTime(r.Created), r.CreatedLabel, r.LikeCount, r.Verified, r.LikedBySelf)
			if err != nil {
				return fmt.Errorf("insert reply %s/%s: %w", c.ID, r.ID, err)
			}
			if err := insertLikers(insertLike, c.ID, r.ID, r.LikedBy); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertLikers(stmt *sql.Stmt, commentID, replyID string, likedBy []string) error {
	for pos, actorID := range likedBy {
		if _, err := stmt.Exec(commentID, replyID, actorID, pos); err != nil {
			return fmt.Errorf("insert like %s/%s by %s: %w", commentID, replyID, actorID, err)
		}
	}
	return nil
}

func (s *Store) query(where string, args ...any) ([]domain.Comment, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id, tab, author, author_id, text, created, created_label, donation, likes, verified, pinned, liked
		FROM comments `+where+` ORDER BY position`, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := []domain.Comment{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			c        domain.Comment
			tab      string
			created  string
			donation sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &tab, &c.AuthorHandle, &c.AuthorID, &c.Text, &created, &c.CreatedLabel,
			&donation, &c.LikeCount, &c.Verified, &c.Pinned, &c.LikedBySelf); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.Tab = domain.Tab(tab)
		c.Created = parseTime(created)
		if donation.Valid {
			d := donation.Float64
			c.Donation = &d
		}
		index[c.ID] = len(comments)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	if len(comments) == 0 {
		return comments, nil
	}

	replyRows, err := db.Query(`
		SELECT comment_id, id, author, author_id, text, created, created_label, likes, verified, liked
		FROM replies ORDER BY comment_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer func() { _ = replyRows.Close() }()

	for replyRows.Next() {
		var (
			r         domain.Reply
			commentID string
			created   string
		)
		if err := replyRows.Scan(&commentID, &r.ID, &r.AuthorHandle, &r.AuthorID, &r.Text, &created,
			&r.CreatedLabel, &r.LikeCount, &r.Verified, &r.LikedBySelf); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		idx, ok := index[commentID]
		if !ok {
			continue
		}
		r.Created = parseTime(created)
		comments[idx].Replies = append(comments[idx].Replies, r)
	}
	if err := replyRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replies: %w", err)
	}

	if err := loadLikes(db, comments, index); err != nil {
		return nil, err
	}
	return comments, nil
}

// loadLikes fills LikedBy of the loaded comments and replies.
func loadLikes(db *sql.DB, comments []domain.Comment, index map[string]int) error {
	rows, err := db.Query(`SELECT comment_id, reply_id, actor_id FROM likes ORDER BY comment_id, reply_id, position`)
	if err != nil {
		return fmt.Errorf("query likes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var commentID, replyID, actorID string
		if err := rows.Scan(&commentID, &replyID, &actorID); err != nil {
			return fmt.Errorf("scan like: %w", err)
		}
		idx, ok := index[commentID]
		if !ok {
			continue
		}
		c := &comments[idx]
		if replyID == "" {
			c.LikedBy = append(c.LikedBy, actorID)
			continue
		}
		if r := c.Reply(replyID); r != nil {
			r.LikedBy = append(r.LikedBy, actorID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate likes: %w", err)
	}
	return nil
}

// ready returns the connection of an initialized store.
func (s *Store) ready() (*sql.DB, error) {
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func (s *Store) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	s.db = db
	return db, nil
}

// migrate ensures the schema exists and is upgraded to SchemaVersion.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("migrate: unsupported schema version %d", current)
	}
	if current == SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for version := current + 1; version <= SchemaVersion; version++ {
		for _, stmt := range migrations[version-1] {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("migrate to v%d: %w", version, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("migrate: record schema version %d: %w", version, err)
		}
	}
	return tx.Commit()
}

// migrations holds the statements of each schema version, oldest first.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			tab TEXT NOT NULL,
			author TEXT NOT NULL,
			author_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created TEXT NOT NULL DEFAULT '',
			created_label TEXT NOT NULL DEFAULT '',
			donation REAL NULL,
			likes INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			pinned INTEGER NOT NULL DEFAULT 0,
			liked INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS replies (
			comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			author TEXT NOT NULL,
			author_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created TEXT NOT NULL DEFAULT '',
			created_label TEXT NOT NULL DEFAULT '',
			likes INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			liked INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (comment_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_tab_position ON comments(tab, position)`,
	},
	{
		// reply_id is empty for a like on the comment itself.
		`CREATE TABLE IF NOT EXISTS likes (
			comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
			reply_id TEXT NOT NULL DEFAULT '',
			actor_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (comment_id, reply_id, actor_id)
		)`,
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Store implements CommentRepository.
var _ domain.CommentRepository = (*Store)(nil)

// Ensure Store implements StoreInitializer.
var _ domain.StoreInitializer = (*Store)(nil)
