// Package store implements the single-file embedded persistence layer:
// schema migration, pick recording, batch import, and per-session draft
// isolation, per spec.md §4.4.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stormlightlabs.org/draftassistant/internal/core"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema migration file.
type Migration struct {
	Name    string
	Content string
}

// Store wraps a single-file sqlite database with the draft assistant's
// schema and migration bookkeeping.
type Store struct {
	*sql.DB
}

// Open opens (creating if absent) the sqlite file at path, enables WAL
// mode, a 5-second busy timeout, and foreign key enforcement, then runs
// any pending migrations. path may be ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	s := &Store{DB: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func (s *Store) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = ?)`, name).Scan(&exists)
	return exists, err
}

func markApplied(ctx context.Context, exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, name string) error {
	_, err := exec.ExecContext(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, time.Now().Format(time.RFC3339Nano))
	return err
}

func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := migrationFiles.ReadFile("sql/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Name: entry.Name(), Content: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// migrate runs any pending embedded migrations, then applies the two
// one-shot legacy-schema fixups described in spec.md §4.4.
func (s *Store) migrate(ctx context.Context) error {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		return fmt.Errorf("no migration files found")
	}

	for _, m := range migrations {
		applied, err := s.isApplied(ctx, m.Name)
		if err != nil {
			return fmt.Errorf("check migration status for %s: %w", m.Name, err)
		}
		if applied {
			continue
		}

		tx, err := s.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction for %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.Content); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", m.Name, err)
		}
		if err := markApplied(ctx, tx, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("mark migration %s applied: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Name, err)
		}
	}

	return s.fixLegacySchema(ctx)
}

// fixLegacySchema detects a pre-draft_id draft_picks table and rebuilds it
// with the composite (pick_number, draft_id) primary key, per spec.md
// §4.4. Legacy rows become invisible to real-session queries (draft_id =
// ''). It also attempts to add eligible_slots to a previous-generation
// schema, silently ignoring a "duplicate column" failure.
func (s *Store) fixLegacySchema(ctx context.Context) error {
	hasDraftID, err := s.hasColumn(ctx, "draft_picks", "draft_id")
	if err != nil {
		return err
	}

	if !hasDraftID {
		tx, err := s.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin legacy rebuild transaction: %w", err)
		}

		stmts := []string{
			`ALTER TABLE draft_picks RENAME TO draft_picks_legacy`,
			`CREATE TABLE draft_picks (
				pick_number INTEGER NOT NULL,
				draft_id TEXT NOT NULL,
				team_id TEXT NOT NULL DEFAULT '',
				team_name TEXT NOT NULL DEFAULT '',
				player_name TEXT NOT NULL,
				external_player_id TEXT NOT NULL DEFAULT '',
				position TEXT NOT NULL DEFAULT '',
				price REAL NOT NULL DEFAULT 0,
				eligible_slots INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (pick_number, draft_id)
			)`,
			`INSERT INTO draft_picks (pick_number, draft_id, team_id, team_name, player_name, external_player_id, position, price)
				SELECT pick_number, '', team_id, team_name, player_name, external_player_id, position, price FROM draft_picks_legacy`,
			`DROP TABLE draft_picks_legacy`,
			`CREATE INDEX IF NOT EXISTS idx_draft_picks_draft_id ON draft_picks(draft_id)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("legacy schema rebuild: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit legacy schema rebuild: %w", err)
		}
	}

	hasSlots, err := s.hasColumn(ctx, "draft_picks", "eligible_slots")
	if err != nil {
		return err
	}
	if !hasSlots {
		if _, err := s.ExecContext(ctx, `ALTER TABLE draft_picks ADD COLUMN eligible_slots INTEGER NOT NULL DEFAULT 0`); err != nil {
			if !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				return fmt.Errorf("add eligible_slots column: %w", err)
			}
		}
	}

	return nil
}

func (s *Store) hasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := s.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("pragma table_info(%s): %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notnull    int
			dfltValue  any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// GenerateDraftID produces a timestamped, millisecond-resolution draft
// identifier, per spec.md §4.4.
// GenerateDraftID builds a new unique draft id from the current UTC
// timestamp, in the form draft_YYYYMMDD_HHMMSS_mmm (e.g.
// draft_20260228_143022_123), per spec.md §3 and original_source db.rs's
// generate_draft_id. The millisecond suffix keeps ids unique even when
// two drafts start within the same second.
func GenerateDraftID() string {
	now := time.Now().UTC()
	return fmt.Sprintf("draft_%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1e6)
}

const currentDraftIDKey = "current_draft_id"

// CurrentDraftID reads the active draft id from the key-value scratchpad,
// returning "" if none has been set.
func (s *Store) CurrentDraftID(ctx context.Context) (string, error) {
	var value string
	err := s.QueryRowContext(ctx, `SELECT value FROM draft_state WHERE key = ?`, currentDraftIDKey).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read current draft id: %w", err)
	}
	return value, nil
}

// SetCurrentDraftID writes the active draft id to the key-value
// scratchpad.
func (s *Store) SetCurrentDraftID(ctx context.Context, draftID string) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO draft_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, currentDraftIDKey, draftID)
	if err != nil {
		return fmt.Errorf("set current draft id: %w", err)
	}
	return nil
}

// RecordPick persists a single pick using insert-or-ignore semantics, so
// re-recording the same (pick_number, draft_id) is a no-op, per spec.md
// §4.4.
func (s *Store) RecordPick(ctx context.Context, draftID string, pick core.DraftPick) error {
	_, err := s.ExecContext(ctx, `
		INSERT OR IGNORE INTO draft_picks
			(pick_number, draft_id, team_id, team_name, player_name, external_player_id, position, price, eligible_slots)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, pick.PickNumber, draftID, pick.TeamID, pick.TeamName, pick.PlayerName, pick.ExternalPlayerID, pick.Position, pick.Price, pick.EligibleSlots)
	if err != nil {
		return fmt.Errorf("record pick %d: %w", pick.PickNumber, err)
	}
	return nil
}

// LoadPicks returns every recorded pick for a draft, ordered by pick
// number.
func (s *Store) LoadPicks(ctx context.Context, draftID string) ([]core.DraftPick, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT pick_number, team_id, team_name, player_name, external_player_id, position, price, eligible_slots
		FROM draft_picks WHERE draft_id = ? ORDER BY pick_number ASC
	`, draftID)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}
	defer rows.Close()

	var picks []core.DraftPick
	for rows.Next() {
		var p core.DraftPick
		if err := rows.Scan(&p.PickNumber, &p.TeamID, &p.TeamName, &p.PlayerName, &p.ExternalPlayerID, &p.Position, &p.Price, &p.EligibleSlots); err != nil {
			return nil, fmt.Errorf("scan pick row: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// LoadProjections returns every imported player's projection, the full
// pool the valuation pipeline runs against at startup.
func (s *Store) LoadProjections(ctx context.Context) ([]core.Projection, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT p.name, p.team, p.kind, p.pitcher_role, p.eligible_slots,
			j.pa, j.ab, j.h, j.hr, j.r, j.rbi, j.bb, j.sb, j.avg,
			j.ip, j.k, j.w, j.sv, j.hd, j.era, j.whip, j.g, j.gs
		FROM players p
		JOIN projections j ON j.player_name = p.name
		ORDER BY p.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load projections: %w", err)
	}
	defer rows.Close()

	var out []core.Projection
	for rows.Next() {
		var p core.Projection
		if err := rows.Scan(
			&p.Name, &p.Team, &p.Kind, &p.PitcherRole, &p.Positions,
			&p.Hitter.PA, &p.Hitter.AB, &p.Hitter.H, &p.Hitter.HR, &p.Hitter.R,
			&p.Hitter.RBI, &p.Hitter.BB, &p.Hitter.SB, &p.Hitter.AVG,
			&p.Pitcher.IP, &p.Pitcher.K, &p.Pitcher.W, &p.Pitcher.SV, &p.Pitcher.HD,
			&p.Pitcher.ERA, &p.Pitcher.WHIP, &p.Pitcher.G, &p.Pitcher.GS,
		); err != nil {
			return nil, fmt.Errorf("scan projection row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HasInProgress reports whether a draft has any recorded picks.
func (s *Store) HasInProgress(ctx context.Context, draftID string) (bool, error) {
	var count int
	err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM draft_picks WHERE draft_id = ?`, draftID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check in-progress draft: %w", err)
	}
	return count > 0, nil
}

// ClearDraft deletes the draft's pick rows and every draft_state row
// (including the current-draft marker) in a single transaction, rolling back on error, per spec.md §4.4.
func (s *Store) ClearDraft(ctx context.Context, draftID string) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear-draft transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_picks WHERE draft_id = ?`, draftID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear draft picks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_state`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear draft state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear-draft transaction: %w", err)
	}
	return nil
}

// ImportPlayer is one row of a batch player+projection import.
type ImportPlayer struct {
	Projection core.Projection
}

// ImportPlayers batch-inserts players and their projections in a single
// transaction; partial failure rolls back the whole batch, per spec.md
// §4.4.
func (s *Store) ImportPlayers(ctx context.Context, players []ImportPlayer) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}

	for _, p := range players {
		proj := p.Projection
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO players (name, team, kind, pitcher_role, eligible_slots)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET team = excluded.team, kind = excluded.kind,
				pitcher_role = excluded.pitcher_role, eligible_slots = excluded.eligible_slots
		`, proj.Name, proj.Team, int(proj.Kind), int(proj.PitcherRole), proj.Positions); err != nil {
			tx.Rollback()
			return fmt.Errorf("import player %s: %w", proj.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projections
				(player_name, pa, ab, h, hr, r, rbi, bb, sb, avg, ip, k, w, sv, hd, era, whip, g, gs)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(player_name) DO UPDATE SET
				pa = excluded.pa, ab = excluded.ab, h = excluded.h, hr = excluded.hr, r = excluded.r,
				rbi = excluded.rbi, bb = excluded.bb, sb = excluded.sb, avg = excluded.avg,
				ip = excluded.ip, k = excluded.k, w = excluded.w, sv = excluded.sv, hd = excluded.hd,
				era = excluded.era, whip = excluded.whip, g = excluded.g, gs = excluded.gs
		`, proj.Name, proj.Hitter.PA, proj.Hitter.AB, proj.Hitter.H, proj.Hitter.HR, proj.Hitter.R,
			proj.Hitter.RBI, proj.Hitter.BB, proj.Hitter.SB, proj.Hitter.AVG,
			proj.Pitcher.IP, proj.Pitcher.K, proj.Pitcher.W, proj.Pitcher.SV, proj.Pitcher.HD,
			proj.Pitcher.ERA, proj.Pitcher.WHIP, proj.Pitcher.G, proj.Pitcher.GS); err != nil {
			tx.Rollback()
			return fmt.Errorf("import projection for %s: %w", proj.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import transaction: %w", err)
	}
	return nil
}
