package gallery

// Column limits accepted by the geometry engine
const (
	DefaultColumns = 1
	MinColumns     = 1
)

// CellSize is the derived size of every grid cell. Cells are square.
type CellSize struct {
	Width  float32
	Height float32
}

// Geometry derives the uniform cell size from the container width and the
// column count. It recomputes only when told the container was resized.
type Geometry struct {
	width    float32
	height   float32
	columns  int
	measured bool
	cell     CellSize

	listeners []func(CellSize)
}

// NewGeometry creates an engine for the given column count. Values below 1
// fall back to DefaultColumns.
func NewGeometry(columns int) *Geometry {
	if columns < MinColumns {
		columns = DefaultColumns
	}
	return &Geometry{columns: columns}
}

// OnChange registers fn to be called with the new cell size after every
// recomputation that changes it.
func (g *Geometry) OnChange(fn func(CellSize)) {
	g.listeners = append(g.listeners, fn)
}

// Resize records the container's new size. It returns true and notifies
// listeners when the derived cell size changed.
func (g *Geometry) Resize(width, height float32) bool {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if g.measured && width == g.width && height == g.height {
		return false
	}
	g.width, g.height, g.measured = width, height, true
	return g.recompute()
}

// SetColumns changes the column count. Values below 1 are clamped to 1.
func (g *Geometry) SetColumns(columns int) bool {
	if columns < MinColumns {
		columns = MinColumns
	}
	if columns == g.columns {
		return false
	}
	g.columns = columns
	return g.recompute()
}

// Columns returns the configured column count
func (g *Geometry) Columns() int {
	return g.columns
}

// CellSize returns the current cell size; zero before the first Resize.
func (g *Geometry) CellSize() CellSize {
	return g.cell
}

// Rows returns the number of rows needed for count items.
func (g *Geometry) Rows(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + g.columns - 1) / g.columns
}

// Index returns the item index at row/col, or -1 when outside count.
func (g *Geometry) Index(row, col, count int) int {
	if row < 0 || col < 0 || col >= g.columns {
		return -1
	}
	idx := row*g.columns + col
	if idx >= count {
		return -1
	}
	return idx
}

func (g *Geometry) recompute() bool {
	var next CellSize
	if g.measured {
		edge := g.width / float32(g.columns)
		next = CellSize{Width: edge, Height: edge}
	}
	if next == g.cell {
		return false
	}
	g.cell = next
	for _, fn := range g.listeners {
		fn(next)
	}
	return true
}
