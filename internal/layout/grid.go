// Package layout maps a screen's zones to grid cells or to explicit
// percentage rectangles.
package layout

import (
	"math"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

// Gap between grid cells, in pixels.
const Gap = 4

// Span marks a zone that covers more than one cell.
type Span struct {
	Index   int `json:"index"`
	ColSpan int `json:"col_span"`
	RowSpan int `json:"row_span"`
}

// Cell places one zone index on 1-based grid lines.
type Cell struct {
	Index   int `json:"index"`
	Col     int `json:"col"`
	Row     int `json:"row"`
	ColSpan int `json:"col_span"`
	RowSpan int `json:"row_span"`
}

// Grid is the topology for a zone count.
type Grid struct {
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Gap   int    `json:"gap"`
	Spans []Span `json:"spans,omitempty"`
	Cells []Cell `json:"cells"`
}

var uniform = map[int][2]int{
	1:  {1, 1},
	2:  {2, 1},
	4:  {2, 2},
	6:  {3, 2},
	8:  {4, 2},
	9:  {3, 3},
	12: {4, 3},
	16: {4, 4},
}

// Resolve returns the grid for count zones. 3, 5 and 7 zones get hand-tuned
// spans; counts outside the table approximate a 16:9 screen.
func Resolve(count int) Grid {
	if count < 1 {
		return Grid{Cols: 1, Rows: 1}
	}
	g := Grid{Gap: Gap}
	if count == 1 {
		g.Gap = 0
	}

	switch count {
	case 3:
		g.Cols, g.Rows = 2, 2
		g.Spans = []Span{{Index: 2, ColSpan: 1, RowSpan: 2}}
		g.Cells = []Cell{
			{Index: 0, Col: 1, Row: 1, ColSpan: 1, RowSpan: 1},
			{Index: 1, Col: 1, Row: 2, ColSpan: 1, RowSpan: 1},
			{Index: 2, Col: 2, Row: 1, ColSpan: 1, RowSpan: 2},
		}
		return g
	case 5:
		g.Cols, g.Rows = 3, 2
		g.Spans = []Span{{Index: 2, ColSpan: 1, RowSpan: 2}}
		g.Cells = []Cell{
			{Index: 0, Col: 1, Row: 1, ColSpan: 1, RowSpan: 1},
			{Index: 1, Col: 2, Row: 1, ColSpan: 1, RowSpan: 1},
			{Index: 2, Col: 3, Row: 1, ColSpan: 1, RowSpan: 2},
			{Index: 3, Col: 1, Row: 2, ColSpan: 1, RowSpan: 1},
			{Index: 4, Col: 2, Row: 2, ColSpan: 1, RowSpan: 1},
		}
		return g
	case 7:
		g.Cols, g.Rows = 4, 2
		g.Spans = []Span{{Index: 6, ColSpan: 2, RowSpan: 1}}
		g.Cells = rowMajor(6, 4)
		g.Cells = append(g.Cells, Cell{Index: 6, Col: 3, Row: 2, ColSpan: 2, RowSpan: 1})
		return g
	}

	if dims, ok := uniform[count]; ok {
		g.Cols, g.Rows = dims[0], dims[1]
	} else {
		g.Cols = int(math.Ceil(math.Sqrt(float64(count) * 16 / 9)))
		g.Rows = int(math.Ceil(float64(count) / float64(g.Cols)))
	}
	g.Cells = rowMajor(count, g.Cols)
	return g
}

func rowMajor(count, cols int) []Cell {
	cells := make([]Cell, count)
	for i := range cells {
		cells[i] = Cell{Index: i, Col: i%cols + 1, Row: i/cols + 1, ColSpan: 1, RowSpan: 1}
	}
	return cells
}

// Rect converts a cell to percentage geometry.
func (g Grid) Rect(c Cell) model.Rect {
	w := 100 / float64(g.Cols)
	h := 100 / float64(g.Rows)
	return model.Rect{
		X:      float64(c.Col-1) * w,
		Y:      float64(c.Row-1) * h,
		Width:  float64(c.ColSpan) * w,
		Height: float64(c.RowSpan) * h,
	}
}
