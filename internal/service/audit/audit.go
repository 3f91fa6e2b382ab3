// Package audit appends user-action records to the 사용자로그 worksheet.
package audit

import (
	"context"
	"time"

	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes [timestamp, actor, action, details] rows, timestamped in
// Asia/Seoul. Best-effort: a failed append is logged and dropped, never
// propagated.
type Logger struct {
	store  domain.Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

func New(store domain.Store, logger *zap.Logger) *Logger {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Logger{
		store:  store,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

func (l *Logger) Record(ctx context.Context, actor, action, details string) {
	ts := l.now().In(l.loc).Format(timeLayout)
	err := l.store.AppendRow(ctx, model.WSAuditLog, []string{ts, actor, action, details})
	if err != nil {
		l.logger.Warn("audit append failed",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
