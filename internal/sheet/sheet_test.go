package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridcalc/internal/calc"
	"gridcalc/internal/grid"
)

func newSheet() *Sheet {
	return New(grid.New(5, 5), nil)
}

func TestSheet_SetInput(t *testing.T) {
	t.Run("literals", func(t *testing.T) {
		s := newSheet()
		cell, err := s.SetInput(0, 0, " 42 ")
		require.NoError(t, err)
		assert.Equal(t, grid.Number(42), cell.Value)
		assert.Equal(t, "42", s.Display(0, 0))

		_, err = s.SetInput(0, 1, "hello")
		require.NoError(t, err)
		assert.Equal(t, grid.Text("hello"), s.Grid().Cell(0, 1).Value)

		_, err = s.SetInput(0, 1, "  ")
		require.NoError(t, err)
		_, ok := s.Grid().Lookup(0, 1)
		assert.False(t, ok)
	})

	t.Run("formula", func(t *testing.T) {
		s := newSheet()
		_, err := s.SetInput(0, 1, "10")
		require.NoError(t, err)
		cell, err := s.SetInput(0, 0, "=B1*2")
		require.NoError(t, err)
		assert.Equal(t, grid.Number(20), cell.Value)
		assert.Equal(t, "=B1*2", cell.Formula)
		assert.Equal(t, "20", s.Display(0, 0))
		assert.Equal(t, "=B1*2", s.Input(0, 0))
	})

	t.Run("failed_formula_keeps_text", func(t *testing.T) {
		s := newSheet()
		cell, err := s.SetInput(0, 0, "=A1+1")
		require.Error(t, err)
		assert.ErrorIs(t, err, calc.ErrCircularReference)
		assert.True(t, IsFormulaError(err))
		assert.Equal(t, grid.KindError, cell.Value.Kind)
		assert.Equal(t, grid.ErrorMarker, s.Display(0, 0))
		assert.Equal(t, "=A1+1", s.Input(0, 0))
	})

	t.Run("grows_extents", func(t *testing.T) {
		s := newSheet()
		_, err := s.SetInput(7, 9, "1")
		require.NoError(t, err)
		assert.Equal(t, 8, s.Grid().Rows)
		assert.Equal(t, 10, s.Grid().Columns)
	})
}

func TestSheet_RefreshDependents(t *testing.T) {
	s := newSheet()
	_, err := s.SetInput(0, 0, "1")
	require.NoError(t, err)
	_, err = s.SetInput(0, 1, "=A1+1")
	require.NoError(t, err)
	_, err = s.SetInput(0, 2, "=B1+1")
	require.NoError(t, err)
	_, err = s.SetInput(1, 0, "=AA1+1")
	require.NoError(t, err)

	_, err = s.SetInput(0, 0, "10")
	require.NoError(t, err)

	// direct dependent only
	assert.Equal(t, "11", s.Display(0, 1))
	assert.Equal(t, "3", s.Display(0, 2))
	assert.Equal(t, "1", s.Display(1, 0))

	_, err = s.SetInput(0, 0, "ten")
	require.NoError(t, err)
	assert.Equal(t, grid.ErrorMarker, s.Display(0, 1))
	assert.Equal(t, "=A1+1", s.Input(0, 1))
}

func TestSheet_EvaluateAll(t *testing.T) {
	g := grid.New(5, 5)
	g.Set(0, 0, grid.Cell{Value: grid.Number(2)})
	g.Set(0, 1, grid.Cell{Formula: "=A1^3"})
	g.Set(1, 1, grid.Cell{Value: grid.Number(99), Formula: "=B2"})

	s := New(grid.New(1, 1), nil)
	failed := s.Replace(g)
	require.Len(t, failed, 1)
	assert.Equal(t, grid.Coord{Row: 1, Col: 1}, failed[0].At)
	assert.ErrorIs(t, failed[0], calc.ErrCircularReference)
	assert.Equal(t, "B2: Circular reference detected", failed[0].Error())

	assert.Equal(t, "8", s.Display(0, 1))
	assert.Equal(t, grid.ErrorMarker, s.Display(1, 1))
}

func TestSheet_Replace(t *testing.T) {
	t.Run("forward_references_settle", func(t *testing.T) {
		g := grid.New(0, 0)
		g.Set(0, 0, grid.Cell{Formula: "=B1+1"})
		g.Set(0, 1, grid.Cell{Formula: "=C1"})
		g.Set(0, 2, grid.Cell{Value: grid.Number(5)})

		s := New(grid.New(1, 1), nil)
		assert.Empty(t, s.Replace(g))
		assert.Equal(t, "5", s.Display(0, 1))
		assert.Equal(t, "6", s.Display(0, 0))
	})

	t.Run("mutual_references_stop", func(t *testing.T) {
		g := grid.New(0, 0)
		g.Set(0, 0, grid.Cell{Formula: "=B1+1"})
		g.Set(0, 1, grid.Cell{Formula: "=A1+1"})

		s := New(grid.New(1, 1), nil)
		assert.Empty(t, s.Replace(g))
		assert.Equal(t, "3", s.Display(0, 0))
		assert.Equal(t, "4", s.Display(0, 1))
	})
}

func TestSheet_RowsAndColumns(t *testing.T) {
	s := New(grid.New(2, 2), nil)
	_, err := s.SetInput(1, 0, "5")
	require.NoError(t, err)
	_, err = s.SetInput(0, 0, "=A2*2")
	require.NoError(t, err)
	assert.Equal(t, "10", s.Display(0, 0))

	s.AddRow()
	s.AddColumn()
	assert.Equal(t, 3, s.Grid().Rows)
	assert.Equal(t, 3, s.Grid().Columns)

	require.True(t, s.DeleteRow())
	require.True(t, s.DeleteRow())
	assert.Equal(t, 1, s.Grid().Rows)
	assert.Equal(t, "0", s.Display(0, 0))
	assert.False(t, s.DeleteRow())

	require.True(t, s.DeleteColumn())
	require.True(t, s.DeleteColumn())
	assert.False(t, s.DeleteColumn())
	assert.Equal(t, "0", s.Display(0, 0))
}
