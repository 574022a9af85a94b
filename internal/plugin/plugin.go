package plugin

import (
	"context"

	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/eventbus"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/logging"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
	"github.com/Piscatoris/backwater-refresh/internal/registry"
)

// Задержка первого полного сканирования после входа: сцена должна успеть
// построиться.
const loginScanDelayTicks = 3

// Plugin — корневой объект: владеет реестром размещений, менеджером
// маркеров, оверлеем и подменщиком чата; обрабатывает события хоста.
type Plugin struct {
	cfg     *config.Config
	client  host.Client
	proj    host.Projection
	log     *logging.Logger
	metrics *metrics.PluginMetrics

	reg     *registry.Registry
	markers *MarkerManager
	overlay *TileOverlay
	chat    *ChatRewriter

	// -1 = выключено, >= 0 = тиков с момента LOGGED_IN.
	ticksSinceLogin int

	subs []eventbus.Subscription
}

// New создаёт плагин со всеми компонентами
func New(cfg *config.Config, client host.Client, proj host.Projection, pm *metrics.PluginMetrics) *Plugin {
	reg := registry.New()
	return &Plugin{
		cfg:     cfg,
		client:  client,
		proj:    proj,
		log:     logging.GetScannerLogger(),
		metrics: pm,
		reg:     reg,
		markers: NewMarkerManager(client, proj, cfg, pm),
		overlay: NewTileOverlay(client, proj, cfg, reg, pm),
		chat:    NewChatRewriter(cfg, client, pm),
	}
}

// Registry возвращает реестр размещений
func (p *Plugin) Registry() *registry.Registry { return p.reg }

// Markers возвращает менеджер маркеров
func (p *Plugin) Markers() *MarkerManager { return p.markers }

// Overlay возвращает тайловый оверлей
func (p *Plugin) Overlay() *TileOverlay { return p.overlay }

// Startup запускает плагин: сбрасывает кэш и сканирует все виды.
func (p *Plugin) Startup() {
	p.markers.DropModelCache()
	p.ScanAllViews()
}

// Shutdown очищает всё и просит хост перестроить сцену, чтобы вернулись
// оригинальные игровые объекты.
func (p *Plugin) Shutdown() {
	p.clearAllObjects()
	p.markers.DropModelCache()
	p.reloadScene()
}

// Attach подписывает обработчики на шину событий хоста.
func (p *Plugin) Attach(bus eventbus.EventBus) {
	sub := bus.Subscribe(context.Background(), eventbus.Filter{
		Types: []string{
			eventbus.EventGameStateChanged,
			eventbus.EventGameTick,
			eventbus.EventWorldViewLoaded,
			eventbus.EventObjectSpawned,
			eventbus.EventConfigChanged,
			eventbus.EventChatMessage,
		},
	}, p.dispatch)
	p.subs = append(p.subs, sub)
}

// Detach отписывает обработчики от шины.
func (p *Plugin) Detach() {
	for _, sub := range p.subs {
		sub.Unsubscribe()
	}
	p.subs = nil
}

// dispatch разбирает конверт и вызывает типизированный обработчик.
// Конверт с неожиданной нагрузкой молча игнорируется.
func (p *Plugin) dispatch(_ context.Context, ev *eventbus.Envelope) {
	switch ev.EventType {
	case eventbus.EventGameStateChanged:
		if payload, ok := ev.Payload.(eventbus.GameStateChangedEvent); ok {
			p.HandleGameState(payload.State)
		}
	case eventbus.EventGameTick:
		p.HandleTick()
	case eventbus.EventWorldViewLoaded:
		if payload, ok := ev.Payload.(eventbus.WorldViewLoadedEvent); ok {
			p.HandleViewLoaded(payload.View)
		}
	case eventbus.EventObjectSpawned:
		if payload, ok := ev.Payload.(eventbus.ObjectSpawnedEvent); ok {
			p.HandleObjectSpawned(payload.Object)
		}
	case eventbus.EventConfigChanged:
		if payload, ok := ev.Payload.(eventbus.ConfigChangedEvent); ok {
			p.HandleConfigChanged(payload.Key)
		}
	case eventbus.EventChatMessage:
		if payload, ok := ev.Payload.(eventbus.ChatMessageEvent); ok {
			p.chat.Handle(payload.Plain, payload.Node)
		}
	}
}

// HandleGameState обрабатывает смену состояния клиента.
func (p *Plugin) HandleGameState(state host.GameState) {
	switch state {
	case host.StateLoginScreen, host.StateHopping:
		// Покидаем мир: чистим и сбрасываем.
		p.clearAllObjects()
		p.markers.DropModelCache()
		p.ticksSinceLogin = 0
	case host.StateLoggedIn:
		// Откладываем первое полное сканирование до постройки сцены.
		p.ticksSinceLogin = 0
	}
}

// HandleTick обрабатывает игровой тик.
func (p *Plugin) HandleTick() {
	if p.ticksSinceLogin >= 0 {
		p.ticksSinceLogin++
		if p.ticksSinceLogin == loginScanDelayTicks {
			p.ScanAllViews()
			p.ticksSinceLogin = -1
		}
	}
}

// HandleViewLoaded сканирует загруженный WorldView.
func (p *Plugin) HandleViewLoaded(view host.WorldView) {
	if view == nil {
		return
	}
	p.scanView(view)
}

// HandleObjectSpawned обрабатывает появившийся объект.
func (p *Plugin) HandleObjectSpawned(obj host.SceneObject) {
	if obj == nil {
		return
	}
	p.processObject(obj)
}

// HandleConfigChanged применяет эффект изменения настройки.
func (p *Plugin) HandleConfigChanged(key string) {
	switch ClassifyChange(key) {
	case EffectFullRebuild:
		// Меняется состав скрываемых/заменяемых объектов — пересобираем
		// сцену с нуля.
		p.clearAllObjects()
		p.markers.DropModelCache()
		p.reloadScene()
	case EffectReapplyOrientation:
		p.markers.UpdateAllOrientations()
	}
}

// ScanAllViews сканирует все известные WorldView, либо единственную
// сцену на старых клиентах.
func (p *Plugin) ScanAllViews() {
	p.metrics.ScansTotal.Inc()

	if top := p.client.TopLevelWorldView(); top != nil {
		p.scanRecursive(top)
		return
	}

	if scene := p.client.Scene(); scene != nil {
		p.scanScene(scene)
	}
}

func (p *Plugin) scanRecursive(view host.WorldView) {
	if view == nil {
		return
	}

	p.scanView(view)
	for _, child := range view.Children() {
		p.scanRecursive(child)
	}
}

func (p *Plugin) scanView(view host.WorldView) {
	if view == nil {
		return
	}
	if scene := view.Scene(); scene != nil {
		p.scanScene(scene)
	}
}

// scanScene — безопасное сканирование: сперва собираем кандидатов,
// затем меняем граф сцены. Мутировать сцену во время обхода нельзя.
// Многотайловые объекты дедуплицируются, чтобы обработать каждый
// экземпляр один раз.
func (p *Plugin) scanScene(scene host.Scene) {
	seen := make(map[host.SceneObject]struct{})
	var toProcess []host.SceneObject

	for _, obj := range scene.Objects() {
		if obj == nil {
			continue
		}
		id := obj.ID()
		if !isFlatBubble(id) && !isBarrierBubble(id) {
			continue
		}
		if _, dup := seen[obj]; dup {
			continue
		}
		seen[obj] = struct{}{}
		toProcess = append(toProcess, obj)
	}

	p.log.Debug("Сканирование сцены: %d кандидатов", len(toProcess))

	for _, obj := range toProcess {
		p.processObject(obj)
	}
}

// processObject применяет к объекту политику скрытия/замены.
func (p *Plugin) processObject(obj host.SceneObject) {
	id := obj.ID()

	hideFlat := p.cfg.Bubbles.HideSurface
	hideWalls := p.cfg.Bubbles.HideBarrier
	// Полное скрытие 3D пузырей всегда побеждает; замену рассматриваем,
	// только если не скрываем целиком.
	replaceWalls := !hideWalls && p.cfg.Bubbles.ReplaceBarrier

	// Плоские косметические пузыри.
	if hideFlat && isFlatBubble(id) {
		p.removeObject(obj)
		return
	}

	// 3D блокирующие пузыри.
	if isBarrierBubble(id) {
		// Всегда регистрируем для тайловых маркеров; показывать или нет,
		// решает оверлей.
		p.registerPlacement(obj)

		if hideWalls {
			// Никаких моделей замены, когда пользователь просил скрыть
			// 3D пузыри целиком.
			p.removeObject(obj)
			return
		}

		if replaceWalls {
			// Убираем оригинальный пузырь, только если успешно создали
			// хотя бы одну модель замены (валидный ID модели).
			if p.markers.CreateBarrierMarker(obj) {
				p.removeObject(obj)
			}
		}
	}
}

// registerPlacement записывает метаданные футпринта 3D пузыря, чтобы
// оверлей мог позже нарисовать тайловые маркеры.
func (p *Plugin) registerPlacement(obj host.SceneObject) {
	size, ok := barrierBubbleSizes[obj.ID()]
	if !ok {
		return
	}

	if _, ok := obj.LocalLocation(); !ok {
		return
	}

	viewID := -1
	if view := obj.WorldView(); view != nil {
		viewID = view.ID()
	}

	p.reg.Put(obj.WorldLocation(), registry.Marker{Size: size, ViewID: viewID})
	p.metrics.Placements.Inc()
}

// removeObject безопасно убирает объект из его сцены, учитывая и
// верхнеуровневую сцену, и сцены отдельных WorldView. Ошибка сцены
// глотается на этой границе: клиент не должен падать, если граф
// изменился, пока мы убираем объект.
func (p *Plugin) removeObject(obj host.SceneObject) {
	if obj == nil {
		return
	}

	var scene host.Scene
	if view := obj.WorldView(); view != nil {
		scene = view.Scene()
	} else {
		scene = p.client.Scene()
	}
	if scene == nil {
		return
	}

	if err := scene.RemoveObject(obj); err != nil {
		p.log.Debug("Не удалось убрать объект %d из сцены: %v", obj.ID(), err)
		return
	}
	p.metrics.ObjectsRemoved.Inc()
}

func (p *Plugin) clearAllObjects() {
	p.markers.ClearAll()
	p.reg.Clear()
}

// reloadScene подталкивает клиент перестроить сцену, чтобы вернулись
// оригинальные игровые объекты после отключения плагина или серьёзной
// смены настроек.
func (p *Plugin) reloadScene() {
	if p.client.GameState() == host.StateLoggedIn {
		p.client.SetGameState(host.StateLoading)
	}
}
