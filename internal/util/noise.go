package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise — детерминированный 2D шум Перлина для раскладки пузырей в
// симуляторе: один сид всегда даёт одну и ту же карту плотности.
type Noise struct {
	gen *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{gen: perlin.NewPerlin(alpha, beta, n, seed)}
}

// At возвращает значение шума для указанных координат (от 0 до 1)
func (p *Noise) At(x, y float64) float64 {
	// Значение шума лежит в диапазоне от -1 до 1.
	noise := p.gen.Noise2D(x, y)
	return (noise + 1.0) / 2.0
}
