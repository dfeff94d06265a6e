package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"

	"tapforge/internal/config"
)

// SQLiteRepo stores players in SQLite with an optimistic-concurrency check:
// every write bumps the version column and fails with
// ErrConcurrentModification when another writer won the race.
type SQLiteRepo struct {
	db      *sql.DB
	balance config.Balance
}

func NewSQLiteRepo(db *sql.DB, b config.Balance) *SQLiteRepo {
	return &SQLiteRepo{db: db, balance: b}
}

const playerColumns = `id, currency, energy, max_energy, level, xp, xp_to_next, lp_per_hour, lp_per_tap, last_tick_at, version`

func scanState(row interface{ Scan(...any) error }) (State, error) {
	var s State
	var tick int64
	err := row.Scan(
		&s.ID, &s.Currency, &s.Energy, &s.MaxEnergy, &s.Level,
		&s.XP, &s.XPToNext, &s.LPPerHour, &s.LPPerTap, &tick, &s.Version,
	)
	if err != nil {
		return State{}, err
	}
	if tick != 0 {
		s.LastTickAt = time.Unix(0, tick)
	}
	return s, nil
}

func tickValue(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// mapContention converts the driver's lock errors into the repo's retry
// signal. In-process races surface as SQLITE_BUSY or SQLITE_LOCKED before
// the version check ever runs; the version column still catches
// cross-process writers that slip past the file lock.
func mapContention(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case 5, 6: // SQLITE_BUSY, SQLITE_LOCKED
			return ErrConcurrentModification
		}
	}
	return err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteRepo) loadLedger(ctx context.Context, q querier, id string) (Ledger, error) {
	rows, err := q.QueryContext(ctx, `SELECT upgrade_id, level FROM owned_upgrades WHERE player_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := Ledger{}
	for rows.Next() {
		var upgradeID string
		var level int
		if err := rows.Scan(&upgradeID, &level); err != nil {
			return nil, err
		}
		ledger[upgradeID] = level
	}
	return ledger, rows.Err()
}

func (r *SQLiteRepo) load(ctx context.Context, q querier, id string) (State, Ledger, bool, error) {
	row := q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	s, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return NewState(id, r.balance), Ledger{}, false, nil
	}
	if err != nil {
		return State{}, nil, false, fmt.Errorf("load player %s: %w", id, err)
	}
	s = normalizeState(s, r.balance)
	ledger, err := r.loadLedger(ctx, q, id)
	if err != nil {
		return State{}, nil, false, fmt.Errorf("load ledger %s: %w", id, err)
	}
	return s, ledger, true, nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (State, Ledger, error) {
	s, ledger, _, err := r.load(ctx, r.db, id)
	return s, ledger, mapContention(err)
}

func (r *SQLiteRepo) Mutate(ctx context.Context, id string, fn func(*State, Ledger) error) (State, Ledger, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return State{}, nil, mapContention(err)
	}
	defer func() { _ = tx.Rollback() }()

	state, ledger, exists, err := r.load(ctx, tx, id)
	if err != nil {
		return State{}, nil, mapContention(err)
	}
	prevVersion := state.Version

	if err := fn(&state, ledger); err != nil {
		return state, ledger, err
	}

	if exists {
		res, err := tx.ExecContext(ctx, `
			UPDATE players SET
				currency = ?, energy = ?, max_energy = ?, level = ?, xp = ?,
				xp_to_next = ?, lp_per_hour = ?, lp_per_tap = ?, last_tick_at = ?,
				version = version + 1
			WHERE id = ? AND version = ?`,
			state.Currency, state.Energy, state.MaxEnergy, state.Level, state.XP,
			state.XPToNext, state.LPPerHour, state.LPPerTap, tickValue(state.LastTickAt),
			id, prevVersion,
		)
		if err != nil {
			return State{}, nil, mapContention(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return State{}, nil, err
		}
		if n == 0 {
			return State{}, nil, ErrConcurrentModification
		}
		state.Version = prevVersion + 1
	} else {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO players (`+playerColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			id, state.Currency, state.Energy, state.MaxEnergy, state.Level,
			state.XP, state.XPToNext, state.LPPerHour, state.LPPerTap,
			tickValue(state.LastTickAt),
		)
		if err != nil {
			// Another writer created the row first.
			return State{}, nil, ErrConcurrentModification
		}
		state.Version = 1
	}

	for upgradeID, level := range ledger {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO owned_upgrades (player_id, upgrade_id, level)
			VALUES (?, ?, ?)
			ON CONFLICT(player_id, upgrade_id) DO UPDATE SET level = excluded.level`,
			id, upgradeID, level,
		)
		if err != nil {
			return State{}, nil, mapContention(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return State{}, nil, mapContention(err)
	}
	return state, ledger, nil
}
