package plugin

import (
	"github.com/Piscatoris/backwater-refresh/internal/config"
)

// ChangeEffect — именованный эффект изменения настройки.
type ChangeEffect int

const (
	// EffectNone — настройка не влияет на состояние сцены.
	EffectNone ChangeEffect = iota
	// EffectFullRebuild — меняется состав скрываемых/заменяемых объектов:
	// полная очистка и пересборка сцены.
	EffectFullRebuild
	// EffectReapplyOrientation — меняется только ориентация маркеров:
	// массовое повторное применение к уже активным маркерам.
	EffectReapplyOrientation
)

// Явное отображение ключа настройки в эффект вместо ветвления по строкам
// на месте обработки.
var changeEffects = map[string]ChangeEffect{
	config.KeyHideSurfaceBubbles:    EffectFullRebuild,
	config.KeyHideBarrierBubbles:    EffectFullRebuild,
	config.KeyReplaceBarrierBubbles: EffectFullRebuild,
	config.KeyDenseBarrierMarkers:   EffectFullRebuild,
	config.KeyRandomRotation:        EffectReapplyOrientation,
	config.KeyGridAlignedRotation:   EffectReapplyOrientation,
}

// ClassifyChange возвращает эффект для ключа настройки.
// Неизвестные ключи дают EffectNone.
func ClassifyChange(key string) ChangeEffect {
	if effect, ok := changeEffects[key]; ok {
		return effect
	}
	return EffectNone
}
