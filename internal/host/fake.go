package host

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// In-memory реализация контрактов хоста. Используется тестами плагина и
// headless-симулятором; поведение повторяет наблюдаемые свойства клиента:
// локальный центр тайла лежит в его середине, проекция отказывает за
// пределами сцены, удалённые объекты исчезают из графа.

// FakeObject — игровой объект фальшивой сцены.
type FakeObject struct {
	ObjID    int
	World    vec.TilePoint
	Local    vec.LocalPoint
	HasLocal bool
	View     *FakeWorldView
}

func (o *FakeObject) ID() int                      { return o.ObjID }
func (o *FakeObject) WorldLocation() vec.TilePoint { return o.World }
func (o *FakeObject) Plane() int                   { return o.World.Plane }

func (o *FakeObject) LocalLocation() (vec.LocalPoint, bool) {
	return o.Local, o.HasLocal
}

func (o *FakeObject) WorldView() WorldView {
	if o.View == nil {
		return nil
	}
	return o.View
}

// FakeScene хранит объекты и помнит удалённые.
type FakeScene struct {
	objects []SceneObject
	Removed []SceneObject
}

func NewFakeScene() *FakeScene { return &FakeScene{} }

// Add помещает объект в сцену
func (s *FakeScene) Add(obj SceneObject) { s.objects = append(s.objects, obj) }

func (s *FakeScene) Objects() []SceneObject {
	out := make([]SceneObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *FakeScene) RemoveObject(obj SceneObject) error {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			s.Removed = append(s.Removed, obj)
			return nil
		}
	}
	return nil
}

// FakeWorldView — пространственный раздел с собственной сценой.
type FakeWorldView struct {
	ViewID   int
	SceneVal *FakeScene
	Kids     []*FakeWorldView
}

func NewFakeWorldView(id int) *FakeWorldView {
	return &FakeWorldView{ViewID: id, SceneVal: NewFakeScene()}
}

func (v *FakeWorldView) ID() int      { return v.ViewID }
func (v *FakeWorldView) Scene() Scene { return v.SceneVal }

func (v *FakeWorldView) Children() []WorldView {
	out := make([]WorldView, 0, len(v.Kids))
	for _, k := range v.Kids {
		out = append(out, k)
	}
	return out
}

// FakeMarker записывает всё, что плагин с ним делает.
type FakeMarker struct {
	ModelVal    Model
	Orientation int
	ViewID      int
	Local       vec.LocalPoint
	PlaneVal    int
	Active      bool
}

func (m *FakeMarker) SetModel(model Model)  { m.ModelVal = model }
func (m *FakeMarker) SetOrientation(o int)  { m.Orientation = o }
func (m *FakeMarker) SetWorldView(id int)   { m.ViewID = id }
func (m *FakeMarker) SetActive(active bool) { m.Active = active }

func (m *FakeMarker) SetLocation(lp vec.LocalPoint, plane int) {
	m.Local = lp
	m.PlaneVal = plane
}

// FakeClient — in-memory клиент.
type FakeClient struct {
	State         GameState
	Top           *FakeWorldView
	PlaneVal      int
	Markers       []*FakeMarker
	Models        map[int]Model
	ChatRefreshes int
	SceneReloads  int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		State:  StateLoggedIn,
		Top:    NewFakeWorldView(-1),
		Models: map[int]Model{},
	}
}

func (c *FakeClient) GameState() GameState { return c.State }

func (c *FakeClient) SetGameState(state GameState) {
	// Перевод LOGGED_IN -> LOADING — это просьба перестроить сцену.
	if c.State == StateLoggedIn && state == StateLoading {
		c.SceneReloads++
		return
	}
	c.State = state
}

func (c *FakeClient) TopLevelWorldView() WorldView {
	if c.Top == nil {
		return nil
	}
	return c.Top
}

func (c *FakeClient) Scene() Scene {
	if c.Top == nil {
		return nil
	}
	return c.Top.SceneVal
}

func (c *FakeClient) Plane() int { return c.PlaneVal }

func (c *FakeClient) CreateMarker() MarkerObject {
	m := &FakeMarker{}
	c.Markers = append(c.Markers, m)
	return m
}

func (c *FakeClient) LoadModel(id int) (Model, bool) {
	model, ok := c.Models[id]
	return model, ok
}

func (c *FakeClient) RefreshChat() { c.ChatRefreshes++ }

// ActiveMarkers возвращает количество активных маркеров
func (c *FakeClient) ActiveMarkers() int {
	n := 0
	for _, m := range c.Markers {
		if m.Active {
			n++
		}
	}
	return n
}

// FakeProjection — проекция с прямоугольной сценой SizeTiles x SizeTiles,
// начинающейся в Origin. За пределами сцены проекция отказывает.
type FakeProjection struct {
	Unit      int
	Origin    vec.Vec2
	SizeTiles int
}

func NewFakeProjection() *FakeProjection {
	return &FakeProjection{Unit: 128, SizeTiles: 104}
}

func (p *FakeProjection) TileUnit() int { return p.Unit }

func (p *FakeProjection) LocalFromWorld(tp vec.TilePoint) (vec.LocalPoint, bool) {
	dx := tp.X - p.Origin.X
	dy := tp.Y - p.Origin.Y
	if dx < 0 || dy < 0 || dx >= p.SizeTiles || dy >= p.SizeTiles {
		return vec.LocalPoint{}, false
	}
	return vec.LocalPoint{
		X: dx*p.Unit + p.Unit/2,
		Y: dy*p.Unit + p.Unit/2,
	}, true
}

func (p *FakeProjection) TileAreaPoly(lp vec.LocalPoint, size int) (Polygon, bool) {
	if size <= 0 {
		return Polygon{}, false
	}
	half := size * p.Unit / 2
	return Polygon{Points: []vec.LocalPoint{
		{X: lp.X - half, Y: lp.Y - half},
		{X: lp.X + half, Y: lp.Y - half},
		{X: lp.X + half, Y: lp.Y + half},
		{X: lp.X - half, Y: lp.Y + half},
	}}, true
}

// CentreLocal возвращает истинный геометрический центр футпринта в
// локальном пространстве: для чётных размеров он смещён на полтайла на
// северо-восток от центра юго-западного тайла за каждый лишний тайл.
func (p *FakeProjection) CentreLocal(anchor vec.TilePoint, size int) (vec.LocalPoint, bool) {
	lp, ok := p.LocalFromWorld(anchor)
	if !ok {
		return vec.LocalPoint{}, false
	}
	if size > 0 && size&1 == 0 {
		adjust := (size - 1) * p.Unit / 2
		lp = lp.Add(vec.LocalPoint{X: adjust, Y: adjust})
	}
	return lp, true
}

// FakeCanvas записывает вызовы отрисовки.
type FakeCanvas struct {
	Fills   []Polygon
	Strokes []Polygon
}

func (c *FakeCanvas) FillPoly(p Polygon, _ RGBA)   { c.Fills = append(c.Fills, p) }
func (c *FakeCanvas) StrokePoly(p Polygon, _ RGBA) { c.Strokes = append(c.Strokes, p) }

// FakeMessageNode — узел сообщения чата.
type FakeMessageNode struct {
	Val string
}

func (n *FakeMessageNode) Value() string       { return n.Val }
func (n *FakeMessageNode) SetValue(val string) { n.Val = val }
