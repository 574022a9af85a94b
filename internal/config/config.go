package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию, совпадающие с поведением плагина «из коробки».
const (
	// DefaultBarrierModelID — модель для замены барьерных пузырей (джунглевая трава).
	DefaultBarrierModelID = 4741

	DefaultSlowdownMessage   = "The backwater tanglegrass significantly reduces the speed of the boat!"
	DefaultProtectionMessage = "The burst of speed briefly protects the boat from the tanglegrass effect."
)

// Ключи конфигурации. События ConfigChanged несут один из этих ключей;
// диспетчер плагина сопоставляет ключ с типом эффекта (см. plugin.ChangeEffect).
const (
	KeyHideSurfaceBubbles    = "hideSurfaceBubbles"
	KeyHideBarrierBubbles    = "hideBarrierBubbles"
	KeyReplaceBarrierBubbles = "replaceBarrierBubbles"
	KeyDenseBarrierMarkers   = "denseBarrierMarkers"
	KeyRandomRotation        = "randomBarrierRotation"
	KeyGridAlignedRotation   = "gridAlignedRotation"
)

// Config корневая структура конфигурации плагина.
type Config struct {
	Bubbles BubblesConfig `yaml:"bubbles"`
	Chat    ChatConfig    `yaml:"chat"`
	Tiles   TilesConfig   `yaml:"tiles"`
	Sim     SimConfig     `yaml:"sim"`
}

// BubblesConfig управляет скрытием и заменой пузырей.
type BubblesConfig struct {
	HideSurface    bool `yaml:"hide_surface"`    // Скрывать плоские косметические пузыри
	HideBarrier    bool `yaml:"hide_barrier"`    // Скрывать 3D пузыри целиком (приоритет над заменой)
	ReplaceBarrier bool `yaml:"replace_barrier"` // Заменять 3D пузыри статичной моделью
	DenseMarkers   bool `yaml:"dense_markers"`   // Один маркер на каждый тайл футпринта
	RandomRotation bool `yaml:"random_rotation"` // Детерминированно-случайная ориентация маркеров
	GridAligned    bool `yaml:"grid_aligned"`    // Ограничить ориентацию четвертями оборота
	ModelID        int  `yaml:"model_id"`        // ID модели замены; 0 -> DefaultBarrierModelID
}

// ChatConfig управляет заменой игровых сообщений.
type ChatConfig struct {
	ReplaceSlowdown   bool   `yaml:"replace_slowdown"`
	SlowdownText      string `yaml:"slowdown_text"`
	ReplaceProtection bool   `yaml:"replace_protection"`
	ProtectionText    string `yaml:"protection_text"`
}

// TilesConfig управляет тайловым оверлеем футпринтов.
type TilesConfig struct {
	ShowMarkers bool  `yaml:"show_markers"` // Рисовать тайловые маркеры
	ShowOverlap bool  `yaml:"show_overlap"` // Полные футпринты с наложениями вместо слитых 1x1
	FillColor   Color `yaml:"fill_color"`
	BorderColor Color `yaml:"border_color"`
}

// SimConfig — настройки headless-симулятора.
type SimConfig struct {
	MetricsPort int   `yaml:"metrics_port"`
	Ticks       int   `yaml:"ticks"`
	Seed        int64 `yaml:"seed"`
}

// Color — цвет RGBA. Альфа 0 означает «полностью прозрачный, не рисовать».
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// Transparent сообщает, что цвет рисовать не нужно
func (c Color) Transparent() bool {
	return c.A == 0
}

// Default возвращает конфигурацию с поведением плагина по умолчанию:
// плоские пузыри скрыты, 3D пузыри заменяются плотными маркерами со
// случайной ориентацией, тайловый оверлей выключен.
func Default() *Config {
	return &Config{
		Bubbles: BubblesConfig{
			HideSurface:    true,
			HideBarrier:    false,
			ReplaceBarrier: true,
			DenseMarkers:   true,
			RandomRotation: true,
			GridAligned:    false,
			ModelID:        DefaultBarrierModelID,
		},
		Chat: ChatConfig{
			ReplaceSlowdown:   true,
			SlowdownText:      DefaultSlowdownMessage,
			ReplaceProtection: true,
			ProtectionText:    DefaultProtectionMessage,
		},
		Tiles: TilesConfig{
			ShowMarkers: false,
			ShowOverlap: true,
			// Тёмно-болотный зелёный, полупрозрачная заливка и прозрачная рамка.
			FillColor:   Color{R: 20, G: 50, B: 30, A: 25},
			BorderColor: Color{R: 20, G: 50, B: 30, A: 0},
		},
		Sim: SimConfig{
			Ticks: 100,
			Seed:  1,
		},
	}
}

// GetModelID возвращает ID модели замены с дефолтом
func (b *BubblesConfig) GetModelID() int {
	if b.ModelID > 0 {
		return b.ModelID
	}
	return DefaultBarrierModelID
}

// GetSlowdownText возвращает текст замены с дефолтом на случай пустой строки
func (c *ChatConfig) GetSlowdownText() string {
	if c.SlowdownText == "" {
		return DefaultSlowdownMessage
	}
	return c.SlowdownText
}

// GetProtectionText возвращает текст замены с дефолтом на случай пустой строки
func (c *ChatConfig) GetProtectionText() string {
	if c.ProtectionText == "" {
		return DefaultProtectionMessage
	}
	return c.ProtectionText
}

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений
func (s *SimConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "BACKWATER_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV BACKWATER_CONFIG или возвращает
// конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BACKWATER_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
