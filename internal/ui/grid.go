package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/photo-gallery/internal/gallery"
	"github.com/ytget/photo-gallery/internal/model"
)

// Grid is a virtualized thumbnail grid. Each list row holds one cell per
// column; cells are recycled by the list and rebound to other images.
type Grid struct {
	widget.BaseWidget

	geometry   *gallery.Geometry
	list       *widget.List
	newCell    func() *ImageCell
	suppressed func(id string) bool

	mu         sync.RWMutex
	images     []model.ImageDescriptor
	selectedID string
	live       map[*ImageCell]struct{}
}

// NewGrid creates a grid with the given column count. newCell builds the
// cells; suppressed tells whether a cell must be hidden for the viewer.
func NewGrid(columns int, newCell func() *ImageCell, suppressed func(id string) bool) *Grid {
	if suppressed == nil {
		suppressed = func(string) bool { return false }
	}
	g := &Grid{
		geometry:   gallery.NewGeometry(columns),
		newCell:    newCell,
		suppressed: suppressed,
		live:       make(map[*ImageCell]struct{}),
	}

	g.list = widget.NewList(g.rowCount, g.createRow, g.updateRow)
	g.list.HideSeparators = true
	g.geometry.OnChange(func(gallery.CellSize) {
		g.list.Refresh()
	})

	g.ExtendBaseWidget(g)
	return g
}

// Geometry returns the grid's geometry engine
func (g *Grid) Geometry() *gallery.Geometry {
	return g.geometry
}

// SetImages replaces the images shown by the grid
func (g *Grid) SetImages(images []model.ImageDescriptor) {
	keep := make(map[string]struct{}, len(images))
	for _, img := range images {
		keep[img.ID] = struct{}{}
	}

	g.mu.Lock()
	g.images = append([]model.ImageDescriptor(nil), images...)
	var stale []*ImageCell
	for c := range g.live {
		if _, ok := keep[c.ImageID()]; !ok {
			stale = append(stale, c)
			delete(g.live, c)
		}
	}
	g.mu.Unlock()

	// Rows beyond the new length are pooled by the list without an update.
	for _, c := range stale {
		c.Detach()
	}
	g.list.Refresh()
}

// Images returns a copy of the current images
func (g *Grid) Images() []model.ImageDescriptor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]model.ImageDescriptor(nil), g.images...)
}

// SetSelectedImageID moves the selection badge
func (g *Grid) SetSelectedImageID(id string) {
	g.mu.Lock()
	g.selectedID = id
	cells := g.liveCells()
	g.mu.Unlock()

	for _, c := range cells {
		c.SetSelectedImageID(id)
	}
}

// SetColumns changes the column count and rebuilds the rows
func (g *Grid) SetColumns(columns int) {
	g.geometry.SetColumns(columns)
	g.list.Refresh()
}

// RefreshSuppression re-applies the suppression flag to every bound cell.
func (g *Grid) RefreshSuppression() {
	g.mu.RLock()
	cells := g.liveCells()
	g.mu.RUnlock()

	for _, c := range cells {
		if id := c.ImageID(); id != "" {
			c.SetSuppressed(g.suppressed(id))
		}
	}
}

// CellFor returns the bound cell showing id, or nil if it is not rendered.
func (g *Grid) CellFor(id string) *ImageCell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for c := range g.live {
		if c.ImageID() == id {
			return c
		}
	}
	return nil
}

// ScrollToImage scrolls the row containing id into view so that its cell is
// rendered and registered.
func (g *Grid) ScrollToImage(id string) {
	g.mu.RLock()
	idx := model.IndexOf(g.images, id)
	g.mu.RUnlock()
	if idx < 0 {
		return
	}
	g.list.ScrollTo(idx / g.geometry.Columns())
}

// DetachAll unregisters every bound cell
func (g *Grid) DetachAll() {
	g.mu.Lock()
	cells := g.liveCells()
	g.live = make(map[*ImageCell]struct{})
	g.mu.Unlock()

	for _, c := range cells {
		c.Detach()
	}
}

// liveCells must be called with g.mu held
func (g *Grid) liveCells() []*ImageCell {
	out := make([]*ImageCell, 0, len(g.live))
	for c := range g.live {
		out = append(out, c)
	}
	return out
}

func (g *Grid) rowCount() int {
	g.mu.RLock()
	n := len(g.images)
	g.mu.RUnlock()
	return g.geometry.Rows(n)
}

func (g *Grid) createRow() fyne.CanvasObject {
	return newGridRow(g)
}

func (g *Grid) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	row, ok := obj.(*gridRow)
	if !ok {
		return
	}
	row.ensureColumns(g.geometry.Columns())

	g.mu.RLock()
	images := g.images
	selected := g.selectedID
	g.mu.RUnlock()

	for col, c := range row.cells {
		idx := g.geometry.Index(id, col, len(images))
		if idx < 0 {
			g.untrack(c)
			c.Detach()
			c.Hide()
			continue
		}
		desc := images[idx]
		c.Show()
		c.Bind(desc, g.suppressed(desc.ID), selected)
		g.track(c)
	}
	row.box.Refresh()
}

func (g *Grid) track(c *ImageCell) {
	g.mu.Lock()
	g.live[c] = struct{}{}
	g.mu.Unlock()
}

func (g *Grid) untrack(c *ImageCell) {
	g.mu.Lock()
	delete(g.live, c)
	g.mu.Unlock()
}

// CreateRenderer implements fyne.Widget
func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	return &gridRenderer{grid: g}
}

type gridRenderer struct {
	grid *Grid
}

// Layout is the only place the container size reaches the geometry engine.
func (r *gridRenderer) Layout(size fyne.Size) {
	r.grid.list.Resize(size)
	r.grid.geometry.Resize(size.Width, size.Height)
}

func (r *gridRenderer) MinSize() fyne.Size {
	return r.grid.list.MinSize()
}

func (r *gridRenderer) Refresh() {
	r.grid.list.Refresh()
}

func (r *gridRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.grid.list}
}

func (r *gridRenderer) Destroy() {
}

// gridRow is one list item: a horizontal run of square cells.
type gridRow struct {
	widget.BaseWidget

	grid  *Grid
	box   *fyne.Container
	cells []*ImageCell
}

func newGridRow(g *Grid) *gridRow {
	r := &gridRow{grid: g}
	r.box = container.New(&rowLayout{geometry: g.geometry})
	r.ExtendBaseWidget(r)
	return r
}

// ensureColumns grows or shrinks the row to n cells
func (r *gridRow) ensureColumns(n int) {
	for len(r.cells) < n {
		c := r.grid.newCell()
		r.cells = append(r.cells, c)
		r.box.Add(c)
	}
	for len(r.cells) > n {
		last := r.cells[len(r.cells)-1]
		r.grid.untrack(last)
		last.Detach()
		r.box.Remove(last)
		r.cells = r.cells[:len(r.cells)-1]
	}
}

// MinSize makes every row exactly one cell tall
func (r *gridRow) MinSize() fyne.Size {
	return fyne.NewSize(0, r.grid.geometry.CellSize().Height)
}

func (r *gridRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.box)
}

// rowLayout places cells side by side at the derived cell size
type rowLayout struct {
	geometry *gallery.Geometry
}

func (l *rowLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	cell := l.geometry.CellSize()
	for i, o := range objects {
		o.Move(fyne.NewPos(float32(i)*cell.Width, 0))
		o.Resize(fyne.NewSize(cell.Width, cell.Height))
	}
}

func (l *rowLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, l.geometry.CellSize().Height)
}
