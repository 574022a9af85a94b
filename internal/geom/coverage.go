package geom

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// CoveredTiles возвращает множество уникальных тайлов, покрытых хотя бы
// одним футпринтом на указанном плане. Перекрывающиеся футпринты дают
// один тайл, а не несколько — это режим слияния для отрисовки 1x1 маркеров.
//
// Членство в результате не зависит от порядка размещений на входе.
// Сложность O(Σ size²); при размерах до 3 это фактически O(N).
func CoveredTiles(placements []Placement, plane int) map[vec.TilePoint]struct{} {
	covered := make(map[vec.TilePoint]struct{})

	for _, p := range placements {
		if p.Anchor.Plane != plane || p.Size <= 0 {
			continue
		}

		sw := SouthWestCorner(p.Anchor, p.Size)
		for dx := 0; dx < p.Size; dx++ {
			for dy := 0; dy < p.Size; dy++ {
				covered[sw.Offset(dx, dy)] = struct{}{}
			}
		}
	}

	return covered
}

// Outline описывает один футпринт для режима с сохранением перекрытий:
// по одной фигуре на размещение, даже если фигуры накладываются друг
// на друга. Наложения намеренно не сливаются — пересечения визуально
// затемняются.
type Outline struct {
	Anchor vec.TilePoint // Опорная точка для построения полигона size x size
	Size   int
	ViewID int
}

// Outlines возвращает контур для каждого размещения на указанном плане.
// Дедупликации нет: каждое размещение даёт свою фигуру.
func Outlines(placements []Placement, plane int) []Outline {
	outlines := make([]Outline, 0, len(placements))

	for _, p := range placements {
		if p.Anchor.Plane != plane || p.Size <= 0 {
			continue
		}

		outlines = append(outlines, Outline{
			Anchor: p.Anchor,
			Size:   p.Size,
			ViewID: p.ViewID,
		})
	}

	return outlines
}

// CentreAdjust возвращает локальное смещение, которое нужно прибавить по
// каждой оси к спроецированному якорю, чтобы полигон оказался по центру
// футпринта.
//
// Для нечётных размеров якорь уже является геометрическим центром,
// смещение нулевое. Для чётных размеров проекция якоря даёт центр
// юго-западного тайла, а геометрический центр лежит на (size-1)/2 тайла
// северо-восточнее; при size == 2 формула даёт ровно полтайла.
func CentreAdjust(size, tileUnit int) int {
	if size <= 0 || size&1 == 1 {
		return 0
	}
	return (size - 1) * tileUnit / 2
}
