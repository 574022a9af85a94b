package vec

// LocalPoint представляет непрерывную координату в локальном пространстве
// сцены. Единицы определяет хост: одному тайлу соответствует TileUnit
// локальных единиц (см. host.Projection).
type LocalPoint struct {
	X, Y int
}

// Add складывает две локальные точки
func (p LocalPoint) Add(other LocalPoint) LocalPoint {
	return LocalPoint{X: p.X + other.X, Y: p.Y + other.Y}
}

// OffsetTiles возвращает точку, смещённую на (dx, dy) тайлов
// при заданной длине тайла в локальных единицах
func (p LocalPoint) OffsetTiles(dx, dy, tileUnit int) LocalPoint {
	return LocalPoint{
		X: p.X + dx*tileUnit,
		Y: p.Y + dy*tileUnit,
	}
}
