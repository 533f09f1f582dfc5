package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"os-tracker/internal/services"
)

// SweepJob запускает ночную остановку таймеров по расписанию внутри процесса.
// Расписание - стандартное cron-выражение из пяти полей (например "*/15 * * * *").
type SweepJob struct {
	sweep    services.SweepServiceInterface
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewSweepJob(sweep services.SweepServiceInterface, schedule string, logger *zap.Logger) *SweepJob {
	return &SweepJob{
		sweep:    sweep,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(zap.String("component", "sweep_job")),
	}
}

func (j *SweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Планировщик остановки таймеров запущен", zap.String("schedule", j.schedule))
	return nil
}

func (j *SweepJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := j.sweep.Run(ctx); err != nil {
		j.logger.Error("Ошибка остановки таймеров", zap.Error(err))
	}
}

// Stop дожидается завершения текущего запуска.
func (j *SweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Планировщик остановки таймеров остановлен")
}
