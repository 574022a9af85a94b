package plugin

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/eventbus"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

func newTestPlugin(cfg *config.Config) (*Plugin, *host.FakeClient, *host.FakeProjection) {
	client := host.NewFakeClient()
	client.Models[config.DefaultBarrierModelID] = "tanglegrass"
	proj := host.NewFakeProjection()
	pm := metrics.NewPluginMetrics(prometheus.NewRegistry())
	return New(cfg, client, proj, pm), client, proj
}

// addObject помещает объект в сцену верхнего уровня с корректным локальным
// центром (для чётных футпринтов — на стыке тайлов).
func addObject(client *host.FakeClient, proj *host.FakeProjection, id int, world vec.TilePoint) *host.FakeObject {
	size := 1
	if s, ok := barrierBubbleSizes[id]; ok {
		size = s
	}
	local, ok := proj.CentreLocal(world, size)
	obj := &host.FakeObject{ObjID: id, World: world, Local: local, HasLocal: ok, View: client.Top}
	client.Top.SceneVal.Add(obj)
	return obj
}

func TestScanHidesFlatBubbles(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	flat := addObject(client, proj, 60356, vec.TilePoint{X: 5, Y: 5})

	p.ScanAllViews()

	assert.Contains(t, client.Top.SceneVal.Removed, host.SceneObject(flat),
		"плоский пузырь должен быть убран из сцены")
	assert.Equal(t, 0, p.Registry().Len(),
		"плоские пузыри не регистрируются в реестре")
}

func TestScanKeepsFlatBubblesWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Bubbles.HideSurface = false
	p, client, proj := newTestPlugin(cfg)
	addObject(client, proj, 60357, vec.TilePoint{X: 5, Y: 5})

	p.ScanAllViews()

	assert.Empty(t, client.Top.SceneVal.Removed)
}

func TestScanReplacesBarrierBubbles(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	barrier := addObject(client, proj, 60361, vec.TilePoint{X: 10, Y: 10}) // 3x3

	p.ScanAllViews()

	require.Equal(t, 1, p.Registry().Len(), "размещение должно попасть в реестр")
	assert.Equal(t, 9, p.Markers().ActiveCount(),
		"плотный режим: по маркеру на каждый тайл футпринта 3x3")
	assert.Contains(t, client.Top.SceneVal.Removed, host.SceneObject(barrier),
		"оригинал убирается после успешной замены")
}

func TestReplaceWithoutModelKeepsOriginal(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	delete(client.Models, config.DefaultBarrierModelID)
	addObject(client, proj, 60359, vec.TilePoint{X: 10, Y: 10})

	p.ScanAllViews()

	assert.Empty(t, client.Top.SceneVal.Removed,
		"без валидной модели оригинал остаётся, чтобы не было невидимой коллизии")
	assert.Equal(t, 0, p.Markers().ActiveCount())
	assert.Equal(t, 1, p.Registry().Len(),
		"размещение регистрируется независимо от замены")
}

func TestHideBarrierWinsOverReplace(t *testing.T) {
	cfg := config.Default()
	cfg.Bubbles.HideBarrier = true
	cfg.Bubbles.ReplaceBarrier = true
	p, client, proj := newTestPlugin(cfg)
	barrier := addObject(client, proj, 60362, vec.TilePoint{X: 20, Y: 20})

	p.ScanAllViews()

	assert.Contains(t, client.Top.SceneVal.Removed, host.SceneObject(barrier))
	assert.Equal(t, 0, p.Markers().ActiveCount(),
		"при полном скрытии модели замены не создаются")
	assert.Equal(t, 1, p.Registry().Len())
}

func TestScanIgnoresForeignObjects(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 12345, vec.TilePoint{X: 5, Y: 5})

	p.ScanAllViews()

	assert.Empty(t, client.Top.SceneVal.Removed)
	assert.Equal(t, 0, p.Registry().Len())
}

func TestScanDeduplicatesMultiTileObjects(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	obj := addObject(client, proj, 60361, vec.TilePoint{X: 10, Y: 10})
	// Многотайловый объект встречается в графе сцены по разу на тайл.
	client.Top.SceneVal.Add(obj)
	client.Top.SceneVal.Add(obj)

	p.ScanAllViews()

	assert.Equal(t, 9, p.Markers().ActiveCount(),
		"каждый экземпляр обрабатывается один раз")
}

func TestScanNestedWorldViews(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())

	child := host.NewFakeWorldView(7)
	client.Top.Kids = append(client.Top.Kids, child)

	local, _ := proj.CentreLocal(vec.TilePoint{X: 30, Y: 30}, 1)
	obj := &host.FakeObject{ObjID: 60359, World: vec.TilePoint{X: 30, Y: 30}, Local: local, HasLocal: true, View: child}
	child.SceneVal.Add(obj)

	p.ScanAllViews()

	assert.Equal(t, 1, p.Markers().ActiveCount(),
		"вложенные WorldView сканируются рекурсивно")
	assert.Contains(t, child.SceneVal.Removed, host.SceneObject(obj),
		"объект убирается из сцены своего WorldView")
}

func TestLoginScanDelay(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 60359, vec.TilePoint{X: 10, Y: 10})

	bus := eventbus.NewMemoryBus()
	p.Attach(bus)
	ctx := context.Background()

	bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventGameStateChanged,
		eventbus.GameStateChangedEvent{State: host.StateLoggedIn}))

	bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventGameTick, nil))
	bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventGameTick, nil))
	assert.Equal(t, 0, p.Markers().ActiveCount(),
		"до третьего тика сцена не сканируется")

	bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventGameTick, nil))
	assert.Equal(t, 1, p.Markers().ActiveCount(),
		"на третьем тике после входа выполняется полное сканирование")

	// Дальнейшие тики повторных сканирований не вызывают.
	removed := len(client.Top.SceneVal.Removed)
	bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventGameTick, nil))
	assert.Equal(t, removed, len(client.Top.SceneVal.Removed))
}

func TestLogoutClearsEverything(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 60361, vec.TilePoint{X: 10, Y: 10})
	p.ScanAllViews()
	require.NotZero(t, p.Markers().ActiveCount())

	p.HandleGameState(host.StateLoginScreen)

	assert.Equal(t, 0, p.Markers().ActiveCount())
	assert.Equal(t, 0, p.Registry().Len())
	assert.Equal(t, 0, client.ActiveMarkers(),
		"маркеры на клиенте гасятся при выходе")
}

func TestConfigChangeFullRebuild(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 60360, vec.TilePoint{X: 10, Y: 10})
	p.ScanAllViews()
	require.NotZero(t, p.Markers().ActiveCount())

	p.HandleConfigChanged(config.KeyHideBarrierBubbles)

	assert.Equal(t, 0, p.Markers().ActiveCount())
	assert.Equal(t, 0, p.Registry().Len())
	assert.Equal(t, 1, client.SceneReloads,
		"пересборка сцены запрашивается через LOADING")
}

func TestConfigChangeReapplyOrientation(t *testing.T) {
	cfg := config.Default()
	p, client, proj := newTestPlugin(cfg)
	addObject(client, proj, 60361, vec.TilePoint{X: 40, Y: 40})
	p.ScanAllViews()

	cfg.Bubbles.RandomRotation = false
	p.HandleConfigChanged(config.KeyRandomRotation)

	for _, m := range client.Markers {
		assert.Equal(t, 0, m.Orientation,
			"после выключения случайной ориентации все маркеры получают 0")
	}
	assert.Zero(t, client.SceneReloads,
		"смена ориентации не требует пересборки сцены")
}

func TestConfigChangeUnknownKeyIsNoop(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 60359, vec.TilePoint{X: 10, Y: 10})
	p.ScanAllViews()
	before := p.Markers().ActiveCount()

	p.HandleConfigChanged("unrelatedKey")

	assert.Equal(t, before, p.Markers().ActiveCount())
	assert.Zero(t, client.SceneReloads)
}

func TestObjectSpawnedViaBus(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	bus := eventbus.NewMemoryBus()
	p.Attach(bus)

	obj := addObject(client, proj, 60359, vec.TilePoint{X: 15, Y: 15})
	bus.Publish(context.Background(), eventbus.NewEnvelope("test", eventbus.EventObjectSpawned,
		eventbus.ObjectSpawnedEvent{Object: obj}))

	assert.Equal(t, 1, p.Markers().ActiveCount())
}

func TestChatMessageViaBus(t *testing.T) {
	p, _, _ := newTestPlugin(config.Default())
	bus := eventbus.NewMemoryBus()
	p.Attach(bus)

	node := &host.FakeMessageNode{Val: slowdownOriginalMessage}
	bus.Publish(context.Background(), eventbus.NewEnvelope("test", eventbus.EventChatMessage,
		eventbus.ChatMessageEvent{Plain: slowdownOriginalBody, Node: node}))

	assert.Equal(t, slowdownColorTag+config.DefaultSlowdownMessage, node.Val)
}

func TestDetachStopsHandling(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	bus := eventbus.NewMemoryBus()
	p.Attach(bus)
	p.Detach()

	obj := addObject(client, proj, 60359, vec.TilePoint{X: 15, Y: 15})
	bus.Publish(context.Background(), eventbus.NewEnvelope("test", eventbus.EventObjectSpawned,
		eventbus.ObjectSpawnedEvent{Object: obj}))

	assert.Equal(t, 0, p.Markers().ActiveCount())
}

func TestShutdownRestoresScene(t *testing.T) {
	p, client, proj := newTestPlugin(config.Default())
	addObject(client, proj, 60361, vec.TilePoint{X: 10, Y: 10})
	p.Startup()
	require.NotZero(t, p.Markers().ActiveCount())

	p.Shutdown()

	assert.Equal(t, 0, p.Markers().ActiveCount())
	assert.Equal(t, 0, p.Registry().Len())
	assert.Equal(t, 1, client.SceneReloads)
}

func TestScanFallsBackToSceneWithoutWorldViews(t *testing.T) {
	// Старый клиент: WorldView недоступен, но сцена верхнего уровня есть.
	client := host.NewFakeClient()
	client.Models[config.DefaultBarrierModelID] = "tanglegrass"
	proj := host.NewFakeProjection()

	scene := host.NewFakeScene()
	local, _ := proj.CentreLocal(vec.TilePoint{X: 10, Y: 10}, 1)
	obj := &host.FakeObject{ObjID: 60359, World: vec.TilePoint{X: 10, Y: 10}, Local: local, HasLocal: true}
	scene.Add(obj)

	legacy := &sceneOnlyClient{FakeClient: client, scene: scene}
	pm := metrics.NewPluginMetrics(prometheus.NewRegistry())
	p := New(config.Default(), legacy, proj, pm)

	p.ScanAllViews()

	assert.Equal(t, 1, p.Markers().ActiveCount())
	assert.Contains(t, scene.Removed, host.SceneObject(obj),
		"без WorldView объект убирается из сцены верхнего уровня")
}

// sceneOnlyClient имитирует клиент без поддержки WorldView.
type sceneOnlyClient struct {
	*host.FakeClient
	scene host.Scene
}

func (c *sceneOnlyClient) TopLevelWorldView() host.WorldView { return nil }
func (c *sceneOnlyClient) Scene() host.Scene                 { return c.scene }
