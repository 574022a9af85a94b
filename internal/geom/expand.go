package geom

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// UnitMarker описывает один пер-тайловый маркер плотного режима:
// мировой тайл и центр этого тайла в локальном пространстве сцены.
type UnitMarker struct {
	World vec.TilePoint
	Local vec.LocalPoint
}

// ExpandDense развёртывает футпринт size x size в отдельные пер-тайловые
// маркеры. centreLocal — истинный геометрический центр объекта в локальном
// пространстве (для чётных размеров он лежит на стыке тайлов, не в центре
// тайла); tileUnit — длина одного тайла в локальных единицах.
//
// Локальный центр юго-западного тайла = centreLocal - size*tileUnit/2 +
// tileUnit/2 по каждой оси; дальше маркеры раскладываются с шагом tileUnit.
// Мировые координаты идут через SouthWestCorner плюс те же смещения
// (dx, dy), так что обе системы координат согласны в том, какая ячейка
// является тайлом (dx, dy): мировое множество пофайлово совпадает с
// результатом CoveredTiles для того же размещения.
//
// size <= 0 — защитный no-op, возвращается nil. Недоступность centreLocal
// или WorldView ядро не определяет: это решает вызывающий, откатываясь
// на одиночный маркер (см. plugin.MarkerManager).
func ExpandDense(anchor vec.TilePoint, size int, centreLocal vec.LocalPoint, tileUnit int) []UnitMarker {
	if size <= 0 {
		return nil
	}

	half := tileUnit / 2
	halfExtent := size * tileUnit / 2

	// Локальный центр юго-западного тайла футпринта.
	swLocal := vec.LocalPoint{
		X: centreLocal.X - halfExtent + half,
		Y: centreLocal.Y - halfExtent + half,
	}

	// Мировая позиция юго-западного тайла футпринта.
	swWorld := SouthWestCorner(anchor, size)

	markers := make([]UnitMarker, 0, size*size)
	for dx := 0; dx < size; dx++ {
		for dy := 0; dy < size; dy++ {
			markers = append(markers, UnitMarker{
				World: swWorld.Offset(dx, dy),
				Local: swLocal.OffsetTiles(dx, dy, tileUnit),
			})
		}
	}

	return markers
}
