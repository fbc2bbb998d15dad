package dbrepository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
)

const (
	invalidEntryID = -1
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
	Ping(ctx context.Context) error
}

type TransactionsManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type DBRepository struct {
	storage DBStorage
	tm      TransactionsManager
	logger  *logging.ZapLogger
}

func New(storage DBStorage, tm TransactionsManager, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		tm:      tm,
		logger:  logger,
	}
}

func (db *DBRepository) Ping(ctx context.Context) error {
	return db.storage.Ping(ctx) //nolint:wrapcheck // storage already wraps
}

var (
	//go:embed sql/insert_journal_entry.sql
	insertJournalEntryQuery string
	//go:embed sql/insert_journal_target.sql
	insertJournalTargetQuery string
)

// InsertJournalEntry stores the entry and its targets atomically.
func (db *DBRepository) InsertJournalEntry(ctx context.Context, entry data.JournalEntry) (entryID int64, err error) {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return invalidEntryID, fmt.Errorf("failed to encode journal payload: %w", err)
	}
	err = db.tm.DoWithTransaction(ctx, func(ctx context.Context) error {
		err := db.storage.QueryValue(
			ctx,
			insertJournalEntryQuery,
			[]any{entry.Kind, entry.SessionID, payload, entry.Modified, entry.CreatedAt},
			[]any{&entryID},
		)
		if err != nil {
			return handleSQLError(err)
		}
		for _, targetID := range entry.TargetIDs {
			if _, err := db.storage.Exec(ctx, insertJournalTargetQuery, entryID, targetID); err != nil {
				return handleSQLError(err)
			}
		}
		return nil
	})
	if err != nil {
		return invalidEntryID, fmt.Errorf("failed to insert journal entry: %w", err)
	}
	db.logger.DebugCtx(ctx, "journal entry stored", zap.Int64("entryID", entryID), zap.String("kind", entry.Kind))
	return entryID, nil
}

//go:embed sql/select_journal_targets.sql
var selectJournalTargetsQuery string

// GetJournalEntries returns the newest entries first, optionally restricted to kinds.
func (db *DBRepository) GetJournalEntries(ctx context.Context, limit int, kinds ...string) ([]data.JournalEntry, error) {
	query := "SELECT id, kind, session_id, payload, modified, created_at FROM journal_entries"
	args := make([]any, 0, len(kinds)+1)
	args = append(args, limit)
	if len(kinds) > 0 {
		query += fmt.Sprintf(" WHERE kind IN (%s)", formatParams(2, len(kinds)))
		for _, kind := range kinds {
			args = append(args, kind)
		}
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $1"

	rows, err := db.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	type row struct {
		entry data.JournalEntry
		id    int64
	}
	fetched := make([]row, 0)
	for rows.Next() {
		var (
			r       row
			payload []byte
		)
		err := rows.Scan(
			&r.id,
			&r.entry.Kind,
			&r.entry.SessionID,
			&payload,
			&r.entry.Modified,
			&r.entry.CreatedAt,
		)
		if err != nil {
			return nil, handleSQLError(err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &r.entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode journal payload %d: %w", r.id, err)
			}
		}
		fetched = append(fetched, r)
	}
	if err = rows.Err(); err != nil {
		return nil, handleSQLError(err)
	}
	rows.Close()

	result := make([]data.JournalEntry, 0, len(fetched))
	for _, r := range fetched {
		targets, err := db.getJournalTargets(ctx, r.id)
		if err != nil {
			return nil, err
		}
		r.entry.TargetIDs = targets
		result = append(result, r.entry)
	}
	return result, nil
}

func (db *DBRepository) getJournalTargets(ctx context.Context, entryID int64) ([]string, error) {
	rows, err := db.storage.Query(ctx, selectJournalTargetsQuery, entryID)
	if err != nil {
		return nil, handleSQLError(err)
	}
	defer rows.Close()

	targets := make([]string, 0)
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, handleSQLError(err)
		}
		targets = append(targets, target)
	}
	if err = rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return targets, nil
		}
		return nil, handleSQLError(err)
	}
	return targets, nil
}

func handleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return data.ErrUniqueConstraintViolation
		}
	}
	return err
}

func formatParams(firstNumber, valuesCount int) string {
	currentNum := firstNumber
	values := make([]string, valuesCount)
	for i := range valuesCount {
		values[i] = fmt.Sprintf("$%v", currentNum)
		currentNum++
	}
	return strings.Join(values, ",")
}
