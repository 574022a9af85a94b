package geom

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// SouthWestCorner возвращает юго-западный тайл футпринта по якорю и размеру.
//
// Для 1x1 и прочих нечётных размеров якорь указывает на центральный тайл,
// поэтому юго-западный тайл — это центр минус size/2 по обеим осям.
// Для чётных размеров (например 2x2) якорь уже является юго-западным
// тайлом по контракту хоста.
//
// Функция никогда не ошибается: size <= 0 — защитный no-op,
// якорь возвращается без изменений.
func SouthWestCorner(anchor vec.TilePoint, size int) vec.TilePoint {
	if size <= 0 {
		return anchor
	}

	if size == 1 {
		return anchor
	}

	if size&1 == 0 {
		// Чётный футпринт: мировая позиция — уже юго-западный тайл.
		return anchor
	}

	half := size / 2
	return vec.TilePoint{
		X:     anchor.X - half,
		Y:     anchor.Y - half,
		Plane: anchor.Plane,
	}
}
