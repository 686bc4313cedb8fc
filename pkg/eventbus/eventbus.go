package eventbus

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus - синхронная шина событий. Слушатели вызываются в горутине запроса
// после коммита, поэтому их ошибки и паники только логируются.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает подписчиков в порядке подписки и возвращает число неудачных.
func (b *Bus) Publish(ctx context.Context, event Event) int {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	failed := 0
	for i, l := range listeners {
		if err := b.call(ctx, l, event); err != nil {
			failed++
			b.logger.Error("Ошибка в обработчике события",
				zap.String("event", event.Name()),
				zap.Int("listener", i),
				zap.Error(err),
			)
		}
	}
	return failed
}

func (b *Bus) call(ctx context.Context, l Listener, event Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("паника в обработчике: %v", p)
		}
	}()
	return l(ctx, event)
}
