package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// размер буфера очереди подписчика; при переполнении события отбрасываются
// с предупреждением в лог, медленный подписчик не блокирует остальных
const subscriberQueueSize = 64

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики событий (опционально)
type Metrics interface {
	EventEmitted(eventType string)
	EventDropped(eventType string)
}

// Handler обработчик события подписчика
type Handler func(Event)

// SubscriptionToken токен подписки, возвращается из Subscribe
// и передаётся в Unsubscribe
type SubscriptionToken string

type subscriber struct {
	token     SubscriptionToken
	eventType EventType
	queue     chan Event
	done      chan struct{}
}

// Broadcaster рассылает события изменения календаря подписчикам.
//
// Экземпляр создаётся и управляется в composition root (cmd/main.go),
// глобального состояния нет. Доставка конкурентна между подписчиками,
// но внутри одной подписки события доставляются строго в порядке отправки.
type Broadcaster struct {
	mu        sync.RWMutex
	connected bool
	subs      map[EventType]map[SubscriptionToken]*subscriber

	logger  Logger
	metrics Metrics // может быть nil
}

// NewBroadcaster создает новый broadcaster. metrics может быть nil.
func NewBroadcaster(logger Logger, metrics Metrics) *Broadcaster {
	return &Broadcaster{
		subs:    make(map[EventType]map[SubscriptionToken]*subscriber),
		logger:  logger,
		metrics: metrics,
	}
}

// Connect активирует доставку событий. Идемпотентен.
func (b *Broadcaster) Connect() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.connected {
		return
	}
	b.connected = true
	b.logger.Info("realtime: broadcaster connected")
}

// Disconnect останавливает доставку и снимает все подписки.
// Безопасен без предшествующего Connect и при повторном вызове.
func (b *Broadcaster) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, byToken := range b.subs {
		for _, sub := range byToken {
			close(sub.done)
		}
	}
	b.subs = make(map[EventType]map[SubscriptionToken]*subscriber)

	if b.connected {
		b.connected = false
		b.logger.Info("realtime: broadcaster disconnected")
	}
}

// Subscribe регистрирует обработчик событий указанного типа и возвращает
// токен для отписки. Обработчик вызывается в отдельной горутине подписки,
// паника в нём перехватывается и не прерывает доставку другим подписчикам.
func (b *Broadcaster) Subscribe(eventType EventType, handler Handler) SubscriptionToken {
	sub := &subscriber{
		token:     SubscriptionToken(uuid.NewString()),
		eventType: eventType,
		queue:     make(chan Event, subscriberQueueSize),
		done:      make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[eventType] == nil {
		b.subs[eventType] = make(map[SubscriptionToken]*subscriber)
	}
	b.subs[eventType][sub.token] = sub
	b.mu.Unlock()

	go b.deliver(sub, handler)

	b.logger.Info("realtime: subscribed token=%s type=%s", sub.token, eventType)
	return sub.token
}

// Unsubscribe снимает подписку по токену. Неизвестный токен игнорируется.
func (b *Broadcaster) Unsubscribe(token SubscriptionToken) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, byToken := range b.subs {
		if sub, ok := byToken[token]; ok {
			close(sub.done)
			delete(byToken, token)
			b.logger.Info("realtime: unsubscribed token=%s type=%s", token, eventType)
			return
		}
	}
}

// Emit строит конверт события и ставит его в очередь каждому подписчику
// типа. Если broadcaster не подключён, выполняется ленивое переподключение.
func (b *Broadcaster) Emit(eventType EventType, userID int64, payload Payload) {
	// Ленивое переподключение: Connect идемпотентен
	b.Connect()

	event := Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	if b.metrics != nil {
		b.metrics.EventEmitted(string(eventType))
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[eventType] {
		select {
		case sub.queue <- event:
		default:
			// Очередь переполнена: отбрасываем, сохраняя порядок остальных
			if b.metrics != nil {
				b.metrics.EventDropped(string(eventType))
			}
			b.logger.Warn("realtime: dropped %s event for slow subscriber token=%s", eventType, sub.token)
		}
	}
}

// deliver последовательно доставляет события одной подписки
func (b *Broadcaster) deliver(sub *subscriber, handler Handler) {
	for {
		select {
		case <-sub.done:
			return
		case event := <-sub.queue:
			b.safeHandle(sub, handler, event)
		}
	}
}

func (b *Broadcaster) safeHandle(sub *subscriber, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("realtime: handler panic token=%s type=%s: %v", sub.token, event.Type, r)
		}
	}()
	handler(event)
}
