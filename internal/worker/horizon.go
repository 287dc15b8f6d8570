package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	applyPattern "github.com/m04kA/SMC-CalendarService/internal/usecase/apply_pattern"
)

type PatternLister interface {
	ListActive(ctx context.Context) ([]*domain.RecurringPattern, error)
}

type ApplyPatternUseCase interface {
	Execute(ctx context.Context, req *applyPattern.Request) (*applyPattern.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HorizonWorker по расписанию материализует активные паттерны на
// скользящий горизонт вперёд. Применение паттерна идемпотентно, поэтому
// повторные запуски безопасны: уже заполненные даты пропускаются.
type HorizonWorker struct {
	patterns    PatternLister
	applyUC     ApplyPatternUseCase
	logger      Logger
	horizonDays int
	spec        string

	cron *cron.Cron
}

func NewHorizonWorker(patterns PatternLister, applyUC ApplyPatternUseCase, horizonDays int, spec string, logger Logger) *HorizonWorker {
	return &HorizonWorker{
		patterns:    patterns,
		applyUC:     applyUC,
		logger:      logger,
		horizonDays: horizonDays,
		spec:        spec,
		cron:        cron.New(),
	}
}

// Start регистрирует задачу и запускает планировщик
func (w *HorizonWorker) Start() error {
	if _, err := w.cron.AddFunc(w.spec, w.run); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("HorizonWorker: started, spec=%q horizon=%d days", w.spec, w.horizonDays)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего запуска
func (w *HorizonWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("HorizonWorker: stopped")
}

func (w *HorizonWorker) run() {
	ctx := context.Background()
	from := time.Now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, w.horizonDays)

	patterns, err := w.patterns.ListActive(ctx)
	if err != nil {
		w.logger.Error("HorizonWorker: failed to list active patterns: %v", err)
		return
	}
	w.logger.Info("HorizonWorker: applying %d active patterns over %s..%s",
		len(patterns), from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	for _, pattern := range patterns {
		result, err := w.applyUC.Execute(ctx, &applyPattern.Request{
			UserID:            pattern.UserID,
			PatternID:         pattern.ID,
			From:              from,
			To:                to,
			OverwriteExisting: false,
			SkipConflicts:     true,
		})
		if err != nil {
			w.logger.Error("HorizonWorker: pattern=%s user=%d failed: %v", pattern.ID, pattern.UserID, err)
			continue
		}
		if len(result.Errors) > 0 {
			w.logger.Warn("HorizonWorker: pattern=%s applied=%d skipped=%d errors=%d",
				pattern.ID, len(result.AppliedDates), len(result.SkippedDates), len(result.Errors))
			continue
		}
		w.logger.Info("HorizonWorker: pattern=%s applied=%d skipped=%d",
			pattern.ID, len(result.AppliedDates), len(result.SkippedDates))
	}
}
