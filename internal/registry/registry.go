// Package registry хранит обнаруженные размещения барьерных объектов.
// Реестр — явный объект с единственным владельцем (плагином); он передаётся
// по ссылке и сканеру, и потребителям отрисовки, вместо глобального
// состояния. Время жизни привязано к игровой сессии: полная очистка при
// выходе, перелогине и смене конфигурации, частичного удаления нет.
package registry

import (
	"sync"

	"github.com/Piscatoris/backwater-refresh/internal/geom"
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// Marker — метаданные футпринта, хранящиеся по якорной координате.
type Marker struct {
	Size   int // Длина стороны футпринта в тайлах
	ViewID int // Идентификатор WorldView, -1 если вид неизвестен
}

// Registry — потокобезопасное отображение якорь -> метаданные.
// Ключ трактуется чисто пространственно: повторная запись по тому же
// якорю заменяет предыдущую целиком (last-write-wins). Это намеренная
// семантика, а не ошибка: хост не сообщает два разных объекта с одним
// якорем в рамках одной сцены.
type Registry struct {
	mu         sync.RWMutex
	placements map[vec.TilePoint]Marker
}

// New создаёт пустой реестр
func New() *Registry {
	return &Registry{
		placements: make(map[vec.TilePoint]Marker),
	}
}

// Put регистрирует размещение по якорю, заменяя предыдущее целиком
func (r *Registry) Put(anchor vec.TilePoint, m Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placements[anchor] = m
}

// Get возвращает метаданные по якорю
func (r *Registry) Get(anchor vec.TilePoint) (Marker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.placements[anchor]
	return m, ok
}

// Snapshot возвращает срез размещений для геометрического движка.
// Движок читает реестр только через снимок, поэтому пересчёт никогда
// не видит частично изменённое состояние.
func (r *Registry) Snapshot() []geom.Placement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	placements := make([]geom.Placement, 0, len(r.placements))
	for anchor, m := range r.placements {
		placements = append(placements, geom.Placement{
			Anchor: anchor,
			Size:   m.Size,
			ViewID: m.ViewID,
		})
	}
	return placements
}

// Clear полностью очищает реестр
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placements = make(map[vec.TilePoint]Marker)
}

// Len возвращает количество зарегистрированных размещений
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.placements)
}
