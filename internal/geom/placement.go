// Package geom реализует геометрическое ядро плагина: вычисление юго-западного
// угла футпринта, слияние покрытых тайлов, перечисление контуров с сохранением
// перекрытий, детерминированный хеш ориентации и плотное развёртывание
// футпринта в пер-тайловые маркеры. Все функции чистые: ни состояния, ни
// блокировок, ни фоновой работы.
package geom

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// Placement описывает один обнаруженный объект: якорную координату,
// размер футпринта (длина стороны в тайлах) и идентификатор WorldView.
//
// Конвенция хоста по якорю асимметрична, и ядро обязано соблюдать её,
// а не выводить заново: для нечётных размеров якорь указывает на
// центральный тайл, для чётных — уже на юго-западный.
type Placement struct {
	Anchor vec.TilePoint // Мировая позиция объекта по данным хоста
	Size   int           // Длина стороны футпринта (наблюдаемые значения: 1, 2, 3)
	ViewID int           // Непрозрачный идентификатор WorldView (сквозной)
}
