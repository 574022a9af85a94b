package eventbus

import (
	"context"
	"sync"
	"time"
)

// Envelope описывает универсальный контейнер события хоста.
// Payload — типизированная структура из events.go; шина её не интерпретирует.
type Envelope struct {
	ID        string      // Глобально уникальный идентификатор (UUID).
	Timestamp time.Time   // Время создания события (UTC).
	Source    string      // Имя источника (host, simulator…).
	EventType string      // Тип события (GameTick, GameObjectSpawned…).
	Payload   interface{} // Полезная нагрузка события.
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто — все типы.
	Sources []string // Если пусто — все источники.
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
}

// EventBus определяет абстракцию шины событий хоста.
//
// Доставка синхронная: Publish вызывает обработчики прямо на горутине
// публикующего. Хост владеет единственным логическим потоком событий и
// отрисовки, поэтому фоновая диспетчеризация здесь не нужна и вредна —
// движок обязан видеть события в порядке их возникновения.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope)
	Subscribe(ctx context.Context, f Filter, h Handler) Subscription
	Metrics() Stats
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
}

// NewMemoryBus создаёт синхронную in-memory шину.
func NewMemoryBus() EventBus {
	return &memoryBus{
		subscribers: make(map[int]subscriber),
	}
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) {
	mb.mu.Lock()
	mb.stats.Published++
	subs := make([]subscriber, 0, len(mb.subscribers))
	for _, sub := range mb.subscribers {
		subs = append(subs, sub)
	}
	mb.mu.Unlock()

	for _, sub := range subs {
		if !matchFilter(ev, sub.filter) {
			continue
		}
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}

		sub.handler(ctx, ev)

		mb.mu.Lock()
		mb.stats.Consumed++
		mb.mu.Unlock()
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) Subscription {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: ctx}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.stats
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subscribers, s.id)
	s.bus.mu.Unlock()
}
