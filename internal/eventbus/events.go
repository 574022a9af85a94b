package eventbus

import (
	"time"

	"github.com/google/uuid"

	"github.com/Piscatoris/backwater-refresh/internal/host"
)

// Типы событий хоста, которые потребляет плагин.
const (
	EventGameStateChanged = "GameStateChanged"
	EventGameTick         = "GameTick"
	EventWorldViewLoaded  = "WorldViewLoaded"
	EventObjectSpawned    = "GameObjectSpawned"
	EventConfigChanged    = "ConfigChanged"
	EventChatMessage      = "ChatMessage"
)

// GameStateChangedEvent несёт новое состояние клиента.
type GameStateChangedEvent struct {
	State host.GameState
}

// WorldViewLoadedEvent несёт загруженный WorldView.
type WorldViewLoadedEvent struct {
	View host.WorldView
}

// ObjectSpawnedEvent несёт появившийся в сцене объект.
type ObjectSpawnedEvent struct {
	Object host.SceneObject
}

// ConfigChangedEvent несёт ключ изменённой настройки.
type ConfigChangedEvent struct {
	Key string
}

// ChatMessageEvent несёт игровое сообщение чата.
type ChatMessageEvent struct {
	Plain string           // Текст без цветового тега
	Node  host.MessageNode // Узел сообщения для подмены значения
}

// NewEnvelope собирает конверт события с UUID и временной меткой.
func NewEnvelope(source, eventType string, payload interface{}) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   payload,
	}
}
