package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - это обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Publisher - то, что нужно сервисам: только публикация.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	inflight  sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   time.Minute,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает подписчиков в отдельных горутинах. Ошибки и паники слушателей
// только логируются: публикующая сторона о них не узнаёт.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		b.inflight.Add(1)
		go func(l Listener) {
			defer b.inflight.Done()
			defer func() {
				if p := recover(); p != nil {
					b.logger.Error("Паника в обработчике события", zap.String("event", eventName), zap.Any("panic", p))
				}
			}()

			// Контекст запроса к этому моменту может быть уже отменён.
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait дожидается завершения всех запущенных обработчиков (для остановки сервера и тестов).
func (b *Bus) Wait() {
	b.inflight.Wait()
}
