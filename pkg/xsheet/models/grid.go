package models

import (
	"sort"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// Span limits, the same caps browsers apply to rowspan and colspan.
const (
	MaxRowSpan = 65534
	MaxColSpan = 1000
)

// MergeRange is a merged rectangle identified by its top-left anchor.
type MergeRange struct {
	Anchor  ref.Address
	RowSpan int
	ColSpan int
}

// Range returns the absolute rectangle covered by the merge.
func (m MergeRange) Range() ref.Range {
	return ref.Range{
		Start: m.Anchor,
		End: ref.Address{
			Row: m.Anchor.Row + m.RowSpan - 1,
			Col: m.Anchor.Col + m.ColSpan - 1,
		},
	}
}

// Delta returns the relative span attached to the anchor in editor data.
func (m MergeRange) Delta() [2]int {
	return [2]int{m.RowSpan - 1, m.ColSpan - 1}
}

// Clamp returns m with both spans held to [1, MaxRowSpan] and
// [1, MaxColSpan].
func (m MergeRange) Clamp() MergeRange {
	m.RowSpan = min(max(m.RowSpan, 1), MaxRowSpan)
	m.ColSpan = min(max(m.ColSpan, 1), MaxColSpan)
	return m
}

// MergeFromRange builds a MergeRange from an absolute rectangle.
func MergeFromRange(r ref.Range) MergeRange {
	return MergeRange{
		Anchor:  r.Start,
		RowSpan: r.End.Row - r.Start.Row + 1,
		ColSpan: r.End.Col - r.Start.Col + 1,
	}
}

// cellStore is the storage strategy behind a Grid.
type cellStore interface {
	get(a ref.Address) (Cell, bool)
	set(a ref.Address, c Cell)
	del(a ref.Address)
	addresses() []ref.Address
	len() int
}

// mapStore keeps cells keyed by address.
type mapStore map[ref.Address]Cell

func (s mapStore) get(a ref.Address) (Cell, bool) {
	c, ok := s[a]
	return c, ok
}

func (s mapStore) set(a ref.Address, c Cell) { s[a] = c }
func (s mapStore) del(a ref.Address)         { delete(s, a) }
func (s mapStore) len() int                  { return len(s) }

func (s mapStore) addresses() []ref.Address {
	out := make([]ref.Address, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// denseStore keeps cells in rows of columns.
type denseStore struct {
	rows [][]*Cell
	n    int
}

func (s *denseStore) get(a ref.Address) (Cell, bool) {
	if a.Row < 0 || a.Row >= len(s.rows) {
		return Cell{}, false
	}
	row := s.rows[a.Row]
	if a.Col < 0 || a.Col >= len(row) || row[a.Col] == nil {
		return Cell{}, false
	}
	return *row[a.Col], true
}

func (s *denseStore) set(a ref.Address, c Cell) {
	if a.Row < 0 || a.Col < 0 {
		return
	}
	for len(s.rows) <= a.Row {
		s.rows = append(s.rows, nil)
	}
	row := s.rows[a.Row]
	for len(row) <= a.Col {
		row = append(row, nil)
	}
	if row[a.Col] == nil {
		s.n++
	}
	row[a.Col] = &c
	s.rows[a.Row] = row
}

func (s *denseStore) del(a ref.Address) {
	if _, ok := s.get(a); !ok {
		return
	}
	s.rows[a.Row][a.Col] = nil
	s.n--
}

func (s *denseStore) len() int { return s.n }

func (s *denseStore) addresses() []ref.Address {
	out := make([]ref.Address, 0, s.n)
	for r, row := range s.rows {
		for c, cell := range row {
			if cell != nil {
				out = append(out, ref.Address{Row: r, Col: c})
			}
		}
	}
	return out
}

// Grid is one sheet: cells, the used range and the merged rectangles.
type Grid struct {
	store  cellStore
	used   ref.Range
	hasRef bool
	merges []MergeRange
}

// NewGrid returns an empty grid. Dense selects row/column slice storage
// instead of an address-keyed map.
func NewGrid(dense bool) *Grid {
	g := &Grid{}
	if dense {
		g.store = &denseStore{}
	} else {
		g.store = mapStore{}
	}
	return g
}

// Dense reports whether the grid uses slice storage.
func (g *Grid) Dense() bool {
	_, ok := g.store.(*denseStore)
	return ok
}

// Cell returns the cell stored at a.
func (g *Grid) Cell(a ref.Address) (Cell, bool) {
	return g.store.get(a)
}

// SetCell stores c at a. Addresses with a negative row or column are
// ignored.
func (g *Grid) SetCell(a ref.Address, c Cell) {
	if a.Row < 0 || a.Col < 0 {
		return
	}
	g.store.set(a, c)
}

// DeleteCell removes the cell at a, if any.
func (g *Grid) DeleteCell(a ref.Address) {
	g.store.del(a)
}

// Len returns the number of stored cells.
func (g *Grid) Len() int {
	return g.store.len()
}

// Addresses returns every stored address in row-major order.
func (g *Grid) Addresses() []ref.Address {
	return g.store.addresses()
}

// UsedRange returns the range reported as holding the sheet content.
// The second result is false when no range has been set.
func (g *Grid) UsedRange() (ref.Range, bool) {
	return g.used, g.hasRef
}

// SetUsedRange sets the reported used range.
func (g *Grid) SetUsedRange(r ref.Range) {
	g.used = r
	g.hasRef = true
}

// Merges returns the merged rectangles in insertion order.
func (g *Grid) Merges() []MergeRange {
	return g.merges
}

// AddMerge registers a merged rectangle and drops every stored cell it
// covers except the anchor. Spans are clamped as by Clamp; a merge anchored
// at a negative address is ignored.
func (g *Grid) AddMerge(m MergeRange) {
	if m.Anchor.Row < 0 || m.Anchor.Col < 0 {
		return
	}
	m = m.Clamp()
	g.merges = append(g.merges, m)
	rng := m.Range()
	for _, a := range g.store.addresses() {
		if a != m.Anchor && rng.Contains(a) {
			g.store.del(a)
		}
	}
}

// MergeAt returns the merge whose rectangle covers a.
func (g *Grid) MergeAt(a ref.Address) (MergeRange, bool) {
	for _, m := range g.merges {
		if m.Range().Contains(a) {
			return m, true
		}
	}
	return MergeRange{}, false
}

// Covered reports whether a lies inside a merge without being its anchor.
func (g *Grid) Covered(a ref.Address) bool {
	m, ok := g.MergeAt(a)
	return ok && m.Anchor != a
}
