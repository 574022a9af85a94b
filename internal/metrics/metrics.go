// Package metrics собирает Prometheus-метрики работы плагина.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PluginMetrics — счётчики ключевых операций плагина.
type PluginMetrics struct {
	ScansTotal      prometheus.Counter
	Placements      prometheus.Counter
	ObjectsRemoved  prometheus.Counter
	ActiveMarkers   prometheus.Gauge
	OverlayPolygons prometheus.Counter
	ChatRewrites    prometheus.Counter
}

// NewPluginMetrics создаёт и регистрирует метрики в указанном регистре.
// Тесты передают собственный prometheus.NewRegistry(), симулятор —
// prometheus.DefaultRegisterer.
func NewPluginMetrics(reg prometheus.Registerer) *PluginMetrics {
	pm := &PluginMetrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backwater",
			Name:      "scene_scans_total",
			Help:      "Общее число сканирований сцены.",
		}),
		Placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backwater",
			Name:      "placements_registered_total",
			Help:      "Общее число зарегистрированных размещений барьерных пузырей.",
		}),
		ObjectsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backwater",
			Name:      "objects_removed_total",
			Help:      "Общее число объектов, убранных из сцены.",
		}),
		ActiveMarkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "backwater",
			Name:      "markers_active",
			Help:      "Текущее количество активных маркеров замены.",
		}),
		OverlayPolygons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backwater",
			Name:      "overlay_polygons_total",
			Help:      "Общее число полигонов, отданных оверлеем на отрисовку.",
		}),
		ChatRewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "backwater",
			Name:      "chat_rewrites_total",
			Help:      "Общее число подменённых сообщений чата.",
		}),
	}

	reg.MustRegister(
		pm.ScansTotal,
		pm.Placements,
		pm.ObjectsRemoved,
		pm.ActiveMarkers,
		pm.OverlayPolygons,
		pm.ChatRewrites,
	)
	return pm
}
