package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/eventbus"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/logging"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
	"github.com/Piscatoris/backwater-refresh/internal/plugin"
	"github.com/Piscatoris/backwater-refresh/internal/util"
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// Таблица спавна симулятора: игровые ID пузырей заводи, которые
// расставляет «сервер». Плагин сам решает, что с ними делать.
var (
	flatSpawnIDs = []int{60356, 60357, 60358}

	barrierSpawn = []struct{ id, size int }{
		{60359, 1},
		{60360, 2},
		{60361, 3},
		{60362, 3},
		{60363, 3},
	}
)

// Оригинальные сообщения игры, которые сервер шлёт в чат.
const (
	slowdownBody   = "The fetid pools significantly reduce the speed of the boat!"
	protectionBody = "The burst of speed temporarily protects the boat from the fetid pools effect."
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию BACKWATER_CONFIG или дефолты)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("backwater-sim"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🎮 Запуск headless-симулятора Backwater Refresh...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	ticks := cfg.Sim.Ticks
	if ticks <= 0 {
		ticks = 100
	}
	logging.Info("📡 Конфигурация симулятора: тиков=%d, сид=%d", ticks, cfg.Sim.Seed)

	// === ШИНА СОБЫТИЙ И МЕТРИКИ ===
	bus := eventbus.NewMemoryBus()
	eventbus.Init(bus)

	logSub := eventbus.StartLoggingListener(bus)
	defer logSub.Unsubscribe()

	exporter := eventbus.NewMetricsExporter(bus)
	metricsAddr := fmt.Sprintf(":%d", cfg.Sim.GetMetricsPort())
	exporter.StartHTTP(metricsAddr)
	defer exporter.Stop()

	// === ФАЛЬШИВЫЙ ХОСТ ===
	client := host.NewFakeClient()
	client.State = host.StateLoginScreen
	client.Models[cfg.Bubbles.GetModelID()] = "tanglegrass-model"
	proj := host.NewFakeProjection()

	spawned := populateScene(client, proj, cfg.Sim.Seed)
	logging.Info("🌊 Сцена сгенерирована: %d пузырей на %dx%d тайлах", spawned, proj.SizeTiles, proj.SizeTiles)

	// === ПЛАГИН ===
	pm := metrics.NewPluginMetrics(prometheus.DefaultRegisterer)
	p := plugin.New(cfg, client, proj, pm)
	p.Attach(bus)
	defer p.Detach()

	ctx := context.Background()

	// Вход в мир: полное сканирование произойдёт с задержкой в несколько тиков.
	client.State = host.StateLoggedIn
	publish(ctx, eventbus.EventGameStateChanged, eventbus.GameStateChangedEvent{State: host.StateLoggedIn})

	logging.Info("✅ Симулятор запущен, метрики: http://localhost%s/metrics", metricsAddr)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	canvas := &host.FakeCanvas{}
	prevReloads := client.SceneReloads

loop:
	for tick := 1; tick <= ticks; tick++ {
		select {
		case sig := <-sigCh:
			logging.Info("📡 Получен сигнал %v, досрочное завершение", sig)
			break loop
		default:
		}

		publish(ctx, eventbus.EventGameTick, nil)

		// Кадр между тиками: оверлей отдаёт полигоны на канвас.
		p.Overlay().Render(canvas)

		// Сценарий прогона: чат и смены настроек в фиксированные моменты.
		switch tick {
		case ticks / 4:
			node := &host.FakeMessageNode{Val: "<col=ff3045>" + slowdownBody}
			publish(ctx, eventbus.EventChatMessage, eventbus.ChatMessageEvent{Plain: slowdownBody, Node: node})
			logging.Info("💬 Сообщение чата после подмены: %s", node.Val)

		case ticks / 2:
			cfg.Bubbles.RandomRotation = !cfg.Bubbles.RandomRotation
			publish(ctx, eventbus.EventConfigChanged, eventbus.ConfigChangedEvent{Key: config.KeyRandomRotation})
			logging.Info("⚙️  Переключена случайная ориентация: %v", cfg.Bubbles.RandomRotation)

		case ticks * 3 / 4:
			node := &host.FakeMessageNode{Val: "<col=229628>" + protectionBody}
			publish(ctx, eventbus.EventChatMessage, eventbus.ChatMessageEvent{Plain: protectionBody, Node: node})

			cfg.Bubbles.HideBarrier = !cfg.Bubbles.HideBarrier
			publish(ctx, eventbus.EventConfigChanged, eventbus.ConfigChangedEvent{Key: config.KeyHideBarrierBubbles})
			logging.Info("⚙️  Переключено скрытие барьерных пузырей: %v", cfg.Bubbles.HideBarrier)
		}

		// Плагин запросил пересборку сцены (LOADING): хост восстанавливает
		// оригинальные объекты и сообщает о перезагрузке вида.
		if client.SceneReloads > prevReloads {
			prevReloads = client.SceneReloads
			client.Top = host.NewFakeWorldView(-1)
			restored := populateScene(client, proj, cfg.Sim.Seed)
			logging.Info("🔄 Сцена перестроена хостом: восстановлено %d пузырей", restored)
			publish(ctx, eventbus.EventWorldViewLoaded, eventbus.WorldViewLoadedEvent{View: client.Top})
		}
	}

	// === ИТОГИ ПРОГОНА ===
	stats := bus.Metrics()
	logging.Info("📊 Итоги прогона:")
	logging.Info("   📨 Событий опубликовано: %d, доставлено: %d", stats.Published, stats.Consumed)
	logging.Info("   📌 Размещений в реестре: %d", p.Registry().Len())
	logging.Info("   🌿 Активных маркеров замены: %d", p.Markers().ActiveCount())
	logging.Info("   🖼  Полигонов оверлея за прогон: %d", len(canvas.Fills)+len(canvas.Strokes))

	reportProcessUsage()

	p.Shutdown()
	logging.Info("👋 Симулятор успешно остановлен")
}

// publish отправляет событие в глобальную шину от имени симулятора.
func publish(ctx context.Context, eventType string, payload interface{}) {
	eventbus.Publish(ctx, eventbus.NewEnvelope("simulator", eventType, payload))
}

// populateScene расставляет пузыри по карте плотности шума Перлина:
// одинаковый сид всегда даёт одинаковую заводь.
func populateScene(client *host.FakeClient, proj *host.FakeProjection, seed int64) int {
	noise := util.NewNoise(seed)
	count := 0

	for x := 2; x < proj.SizeTiles-2; x += 3 {
		for y := 2; y < proj.SizeTiles-2; y += 3 {
			v := noise.At(float64(x)/16.0, float64(y)/16.0)
			world := vec.TilePoint{X: x, Y: y}

			switch {
			case v > 0.80:
				// Плотные заросли: барьерный пузырь.
				pick := barrierSpawn[int(v*1000)%len(barrierSpawn)]
				local, ok := proj.CentreLocal(world, pick.size)
				client.Top.SceneVal.Add(&host.FakeObject{
					ObjID:    pick.id,
					World:    world,
					Local:    local,
					HasLocal: ok,
					View:     client.Top,
				})
				count++

			case v > 0.72:
				// Редкая пена: плоский косметический пузырь.
				local, ok := proj.CentreLocal(world, 1)
				client.Top.SceneVal.Add(&host.FakeObject{
					ObjID:    flatSpawnIDs[(x+y)%len(flatSpawnIDs)],
					World:    world,
					Local:    local,
					HasLocal: ok,
					View:     client.Top,
				})
				count++
			}
		}
	}

	return count
}

// reportProcessUsage пишет в лог потребление ресурсов процессом симулятора.
func reportProcessUsage() {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logging.Warn("Не удалось получить информацию о процессе: %v", err)
		return
	}

	if cpuPct, err := proc.CPUPercent(); err == nil {
		logging.Info("   🧮 CPU: %.1f%%", cpuPct)
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		logging.Info("   💾 RSS: %.1f МБ", float64(mem.RSS)/1024/1024)
	}
}
