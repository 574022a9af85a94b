// Package host определяет контракты коллабораторов игрового клиента.
// Ядро плагина не владеет ни сценой, ни проекцией, ни чатом — оно лишь
// вызывает эти интерфейсы. Реальная привязка к клиенту живёт за пределами
// модуля; для тестов и симулятора есть in-memory реализация (fake.go).
package host

import (
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// GameState — состояние игрового клиента.
type GameState int

const (
	StateLoginScreen GameState = iota
	StateHopping
	StateLoading
	StateLoggedIn
)

// String возвращает строковое представление состояния
func (s GameState) String() string {
	switch s {
	case StateLoginScreen:
		return "LOGIN_SCREEN"
	case StateHopping:
		return "HOPPING"
	case StateLoading:
		return "LOADING"
	case StateLoggedIn:
		return "LOGGED_IN"
	default:
		return "UNKNOWN"
	}
}

// Model — непрозрачный хендл освещённой модели хоста.
type Model interface{}

// MessageNode — узел сообщения чата, значение которого можно подменить.
type MessageNode interface {
	Value() string
	SetValue(string)
}

// MarkerObject — клиентский объект-маркер, созданный плагином.
type MarkerObject interface {
	SetModel(Model)
	SetOrientation(int)
	SetWorldView(viewID int)
	SetLocation(lp vec.LocalPoint, plane int)
	SetActive(bool)
}

// SceneObject — игровой объект в сцене хоста.
// LocalLocation возвращает истинный геометрический центр объекта в
// локальном пространстве; для чётных футпринтов он лежит на стыке тайлов.
type SceneObject interface {
	ID() int
	WorldLocation() vec.TilePoint
	LocalLocation() (vec.LocalPoint, bool)
	Plane() int
	WorldView() WorldView // nil, если вид неизвестен
}

// Scene — граф сцены, которым владеет хост.
type Scene interface {
	Objects() []SceneObject
	RemoveObject(obj SceneObject) error
}

// WorldView — пространственный раздел мира (параллельные инстансы сцены).
type WorldView interface {
	ID() int
	Scene() Scene
	Children() []WorldView
}

// Client — минимальный контракт игрового клиента.
type Client interface {
	GameState() GameState
	SetGameState(state GameState)
	TopLevelWorldView() WorldView // nil на старых клиентах без WorldView
	Scene() Scene                 // сцена верхнего уровня (fallback)
	Plane() int                   // план текущей точки обзора
	CreateMarker() MarkerObject
	LoadModel(id int) (Model, bool)
	RefreshChat()
}

// Polygon — полигон в канвас-пространстве для отрисовки тайлового маркера.
type Polygon struct {
	Points []vec.LocalPoint
}

// Projection — проекция хоста между мировыми тайлами и локальным
// пространством текущей сцены.
type Projection interface {
	// TileUnit — длина одного тайла в локальных единицах.
	TileUnit() int
	// LocalFromWorld возвращает локальный центр тайла; false, если тайл
	// не попадает в текущую сцену.
	LocalFromWorld(tp vec.TilePoint) (vec.LocalPoint, bool)
	// TileAreaPoly строит полигон площадки size x size вокруг локальной
	// точки; false, если площадка не проецируется на канвас.
	TileAreaPoly(lp vec.LocalPoint, size int) (Polygon, bool)
}

// RGBA — цвет отрисовки.
type RGBA struct {
	R, G, B, A uint8
}

// Canvas — поверхность отрисовки оверлея, которой владеет хост.
type Canvas interface {
	FillPoly(p Polygon, c RGBA)
	StrokePoly(p Polygon, c RGBA)
}
