package plugin

import (
	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/geom"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/logging"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// MarkerManager владеет клиентскими маркерами замены: по одному на тайл
// футпринта в плотном режиме, либо по одному на объект. Маркеры хранятся
// по мировому тайлу; повторное создание по тому же тайлу сначала гасит
// предыдущий маркер.
type MarkerManager struct {
	client  host.Client
	proj    host.Projection
	cfg     *config.Config
	log     *logging.Logger
	metrics *metrics.PluginMetrics

	active map[vec.TilePoint]host.MarkerObject

	// Кэш освещённой модели, чтобы не перезагружать её на каждый объект.
	cachedModel   host.Model
	cachedModelID int
}

// NewMarkerManager создаёт менеджер маркеров
func NewMarkerManager(client host.Client, proj host.Projection, cfg *config.Config, pm *metrics.PluginMetrics) *MarkerManager {
	return &MarkerManager{
		client:        client,
		proj:          proj,
		cfg:           cfg,
		log:           logging.GetMarkersLogger(),
		metrics:       pm,
		active:        make(map[vec.TilePoint]host.MarkerObject),
		cachedModelID: -1,
	}
}

// OrientationFor возвращает ориентацию маркера для мирового тайла.
// Политика «ориентация выключена» живёт здесь, а не в хеше: при
// выключенной случайной ориентации (или полностью скрытых пузырях)
// возвращается фиксированный 0 без вызова хеша.
func (mm *MarkerManager) OrientationFor(tp vec.TilePoint) int {
	if !mm.cfg.Bubbles.RandomRotation || mm.cfg.Bubbles.HideBarrier {
		return 0
	}
	return geom.Orientation(tp.X, tp.Y, mm.cfg.Bubbles.GridAligned)
}

// CreateBarrierMarker создаёт маркеры замены для 3D пузыря.
// Возвращает true, если размещена хотя бы одна модель (ID модели валиден);
// при невалидной модели оригинальный пузырь остаётся, чтобы не создавать
// невидимую коллизию.
func (mm *MarkerManager) CreateBarrierMarker(obj host.SceneObject) bool {
	centre := obj.WorldLocation()

	model, ok := mm.replacementModel()
	if !ok {
		return false
	}

	size, known := barrierBubbleSizes[obj.ID()]
	if !known {
		size = 1
	}

	dense := mm.cfg.Bubbles.DenseMarkers && size > 1

	if !dense {
		mm.createSingle(centre, obj, model)
	} else {
		mm.createDense(centre, obj, model, size)
	}

	return true
}

// createSingle ставит один маркер в центре объекта — то же место, что и
// при выключенной плотности, поведение не меняется.
func (mm *MarkerManager) createSingle(key vec.TilePoint, obj host.SceneObject, model host.Model) {
	local, ok := obj.LocalLocation()
	if !ok {
		// Центр недоступен — объект молча не маркируем, но и не падаем.
		mm.log.Debug("Центр объекта %d недоступен, маркер не создан", obj.ID())
		return
	}

	mm.deactivate(key)

	marker := mm.client.CreateMarker()
	marker.SetModel(model)
	marker.SetOrientation(mm.OrientationFor(key))

	if view := obj.WorldView(); view != nil {
		marker.SetWorldView(view.ID())
	}

	marker.SetLocation(local, obj.Plane())
	marker.SetActive(true)
	mm.active[key] = marker
	mm.metrics.ActiveMarkers.Set(float64(len(mm.active)))
}

// createDense ставит по маркеру на каждый тайл футпринта NxN.
// Ориентация каждого тайла выводится из его собственной мировой
// координаты и потому стабильна между сканированиями сцены.
func (mm *MarkerManager) createDense(centre vec.TilePoint, obj host.SceneObject, model host.Model, size int) {
	local, hasLocal := obj.LocalLocation()
	view := obj.WorldView()

	if !hasLocal || view == nil {
		// Фолбэк: не можем разложить по тайлам — ставим одиночный маркер,
		// а не пропускаем объект.
		mm.createSingle(centre, obj, model)
		return
	}

	plane := obj.Plane()
	units := geom.ExpandDense(centre, size, local, mm.proj.TileUnit())

	for _, unit := range units {
		mm.deactivate(unit.World)

		marker := mm.client.CreateMarker()
		marker.SetModel(model)
		marker.SetOrientation(mm.OrientationFor(unit.World))
		marker.SetWorldView(view.ID())
		marker.SetLocation(unit.Local, plane)
		marker.SetActive(true)
		mm.active[unit.World] = marker
	}
	mm.metrics.ActiveMarkers.Set(float64(len(mm.active)))
}

// UpdateAllOrientations повторно применяет ориентацию ко всем активным
// маркерам, чтобы смена настроек действовала сразу. Ориентация выводится
// из мировых координат, поэтому переключение настроек всегда даёт один и
// тот же узор для данной раскладки пузырей, а не новое случайное поле.
func (mm *MarkerManager) UpdateAllOrientations() {
	for tp, marker := range mm.active {
		marker.SetOrientation(mm.OrientationFor(tp))
	}
}

// ClearAll гасит и забывает все маркеры
func (mm *MarkerManager) ClearAll() {
	for _, marker := range mm.active {
		marker.SetActive(false)
	}
	mm.active = make(map[vec.TilePoint]host.MarkerObject)
	mm.metrics.ActiveMarkers.Set(0)
}

// DropModelCache сбрасывает кэш модели замены
func (mm *MarkerManager) DropModelCache() {
	mm.cachedModel = nil
	mm.cachedModelID = -1
}

// ActiveCount возвращает количество активных маркеров
func (mm *MarkerManager) ActiveCount() int {
	return len(mm.active)
}

func (mm *MarkerManager) deactivate(key vec.TilePoint) {
	if existing, ok := mm.active[key]; ok {
		existing.SetActive(false)
	}
}

// replacementModel возвращает кэшированную модель замены.
func (mm *MarkerManager) replacementModel() (host.Model, bool) {
	modelID := mm.cfg.Bubbles.GetModelID()

	if mm.cachedModel != nil && mm.cachedModelID == modelID {
		return mm.cachedModel, true
	}

	model, ok := mm.client.LoadModel(modelID)
	if !ok {
		return nil, false
	}

	mm.cachedModel = model
	mm.cachedModelID = modelID
	return model, true
}
