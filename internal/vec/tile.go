package vec

// TilePoint представляет мировую координату тайла с индексом плана (этажа).
// Футпринты объектов никогда не пересекают границу плана.
type TilePoint struct {
	X     int
	Y     int
	Plane int
}

// ToVec2 преобразует TilePoint в Vec2, игнорируя план
func (t TilePoint) ToVec2() Vec2 {
	return Vec2{
		X: t.X,
		Y: t.Y,
	}
}

// Offset возвращает тайл, смещённый на (dx, dy) в пределах того же плана
func (t TilePoint) Offset(dx, dy int) TilePoint {
	return TilePoint{
		X:     t.X + dx,
		Y:     t.Y + dy,
		Plane: t.Plane,
	}
}

// Equals проверяет равенство координат
func (t TilePoint) Equals(other TilePoint) bool {
	return t.X == other.X && t.Y == other.Y && t.Plane == other.Plane
}
