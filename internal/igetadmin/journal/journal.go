package journal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"iget-admin/internal/igetadmin/data"
	"iget-admin/pkg/logging"
)

var ErrDisabled = errors.New("audit journal is disabled")

const defaultListLimit = 100

type Repository interface {
	InsertJournalEntry(ctx context.Context, entry data.JournalEntry) (int64, error)
	GetJournalEntries(ctx context.Context, limit int, kinds ...string) ([]data.JournalEntry, error)
	Ping(ctx context.Context) error
}

// Recorder writes admin mutations to the journal. Write failures are logged
// and swallowed; a nil repository turns it into a no-op.
type Recorder struct {
	repo   Repository
	logger *logging.ZapLogger
	now    func() time.Time
}

func NewRecorder(repo Repository, logger *logging.ZapLogger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Enabled() bool {
	return r.repo != nil
}

// Ping checks the journal database. A disabled journal reports ErrDisabled.
func (r *Recorder) Ping(ctx context.Context) error {
	if r.repo == nil {
		return ErrDisabled
	}
	return r.repo.Ping(ctx) //nolint:wrapcheck // storage already wraps
}

func (r *Recorder) Record(ctx context.Context, entry data.JournalEntry) {
	if r.repo == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	if _, err := r.repo.InsertJournalEntry(ctx, entry); err != nil {
		r.logger.ErrorCtx(
			ctx,
			"failed to record journal entry",
			zap.String("kind", entry.Kind),
			zap.Strings("targets", entry.TargetIDs),
			zap.Error(err),
		)
	}
}

func (r *Recorder) List(ctx context.Context, limit int, kinds ...string) ([]data.JournalEntry, error) {
	if r.repo == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	entries, err := r.repo.GetJournalEntries(ctx, limit, kinds...)
	if err != nil {
		return nil, err //nolint:wrapcheck // repository errors are already descriptive
	}
	return entries, nil
}
