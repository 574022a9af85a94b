package plugin

import (
	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/geom"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
	"github.com/Piscatoris/backwater-refresh/internal/registry"
	"github.com/Piscatoris/backwater-refresh/internal/vec"
)

// TileOverlay рисует тайловые маркеры футпринтов 3D пузырей.
//
// Оверлей намеренно консервативен: тайл рисуется только когда его мировая
// координата проецируется в текущую сцену. На большом удалении маркеры
// просто перестают рисоваться, а не «уплывают» на чужой чанк.
type TileOverlay struct {
	client  host.Client
	proj    host.Projection
	cfg     *config.Config
	reg     *registry.Registry
	metrics *metrics.PluginMetrics
}

// NewTileOverlay создаёт оверлей
func NewTileOverlay(client host.Client, proj host.Projection, cfg *config.Config, reg *registry.Registry, pm *metrics.PluginMetrics) *TileOverlay {
	return &TileOverlay{
		client:  client,
		proj:    proj,
		cfg:     cfg,
		reg:     reg,
		metrics: pm,
	}
}

// Render отдаёт полигоны маркеров на канвас. Вызывается хостом раз в кадр.
func (o *TileOverlay) Render(canvas host.Canvas) {
	if o.client.GameState() != host.StateLoggedIn {
		return
	}
	if !o.cfg.Tiles.ShowMarkers {
		return
	}

	placements := o.reg.Snapshot()
	plane := o.client.Plane()

	if o.cfg.Tiles.ShowOverlap {
		o.renderOutlines(canvas, placements, plane)
	} else {
		o.renderMerged(canvas, placements, plane)
	}
}

// renderOutlines — режим по умолчанию: по полигону на каждый футпринт,
// наложения затемняются там, где футпринты пересекаются.
func (o *TileOverlay) renderOutlines(canvas host.Canvas, placements []geom.Placement, plane int) {
	for _, outline := range geom.Outlines(placements, plane) {
		// Проецируем тайл обратно в локальное пространство текущей сцены.
		// nil-результат (тайл в другом чанке/виде) — просто пропускаем.
		centre, ok := o.proj.LocalFromWorld(outline.Anchor)
		if !ok {
			continue
		}

		// Для чётных футпринтов якорь указывает на ЮЗ-тайл; смещаем
		// полигон к геометрическому центру футпринта.
		if adjust := geom.CentreAdjust(outline.Size, o.proj.TileUnit()); adjust != 0 {
			centre = centre.Add(vec.LocalPoint{X: adjust, Y: adjust})
		}

		poly, ok := o.proj.TileAreaPoly(centre, outline.Size)
		if !ok {
			continue
		}

		o.paint(canvas, poly)
	}
}

// renderMerged — по одному маркеру 1x1 на каждый покрытый тайл;
// пересекающиеся футпринты делят общий маркер вместо наслоения.
func (o *TileOverlay) renderMerged(canvas host.Canvas, placements []geom.Placement, plane int) {
	for tile := range geom.CoveredTiles(placements, plane) {
		lp, ok := o.proj.LocalFromWorld(tile)
		if !ok {
			continue
		}

		poly, ok := o.proj.TileAreaPoly(lp, 1)
		if !ok {
			continue
		}

		o.paint(canvas, poly)
	}
}

func (o *TileOverlay) paint(canvas host.Canvas, poly host.Polygon) {
	fill := o.cfg.Tiles.FillColor
	border := o.cfg.Tiles.BorderColor

	if !fill.Transparent() {
		canvas.FillPoly(poly, host.RGBA{R: fill.R, G: fill.G, B: fill.B, A: fill.A})
	}
	if !border.Transparent() {
		canvas.StrokePoly(poly, host.RGBA{R: border.R, G: border.G, B: border.B, A: border.A})
	}
	o.metrics.OverlayPolygons.Inc()
}
