package services

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"os-tracker/internal/dto"
	"os-tracker/internal/repositories"
	"os-tracker/pkg/config"
)

// OrderPauser - то, что планировщику нужно от сервиса заявок.
type OrderPauser interface {
	PauseRunning(ctx context.Context, id uint64) (bool, error)
}

type SweepServiceInterface interface {
	Run(ctx context.Context) (*dto.SweepResultDTO, error)
}

// SweepService вне рабочего окна [StartHour, EndHour) по местному времени ставит на паузу
// все идущие таймеры. Повторный запуск безопасен: остановленные заявки пропускаются.
type SweepService struct {
	orderRepo repositories.OrderRepositoryInterface
	pauser    OrderPauser
	cfg       config.SweepConfig
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

func NewSweepService(
	orderRepo repositories.OrderRepositoryInterface,
	pauser OrderPauser,
	cfg config.SweepConfig,
	logger *zap.Logger,
) (*SweepService, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", cfg.Timezone, err)
	}
	return &SweepService{
		orderRepo: orderRepo,
		pauser:    pauser,
		cfg:       cfg,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *SweepService) inWorkingHours(hour int) bool {
	return hour >= s.cfg.StartHour && hour < s.cfg.EndHour
}

func (s *SweepService) Run(ctx context.Context) (*dto.SweepResultDTO, error) {
	localHour := s.now().In(s.location).Hour()
	result := &dto.SweepResultDTO{LocalHour: localHour, Timezone: s.location.String()}

	if s.inWorkingHours(localHour) {
		result.Skipped = true
		s.logger.Debug("Рабочее время, таймеры не трогаем", zap.Int("hour", localHour))
		return result, nil
	}

	ids, err := s.orderRepo.ListRunningIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		paused, err := s.pauser.PauseRunning(ctx, id)
		if err != nil {
			s.logger.Error("Не удалось поставить заявку на паузу", zap.Uint64("orderID", id), zap.Error(err))
			continue
		}
		if paused {
			result.Paused++
		}
	}

	s.logger.Info("Ночная остановка таймеров выполнена",
		zap.Int("hour", localHour),
		zap.Int("found", len(ids)),
		zap.Int("paused", result.Paused),
	)
	return result, nil
}
