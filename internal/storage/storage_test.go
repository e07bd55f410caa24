package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridcalc/internal/grid"
)

func sampleGrid() *grid.Grid {
	g := grid.New(12, 4)
	g.Set(0, 0, grid.Cell{Value: grid.Number(5)})
	g.Set(0, 1, grid.Cell{Value: grid.Number(7), Formula: "=A1+2"})
	g.Set(1, 0, grid.Cell{Value: grid.Text("total, net")})
	g.Set(1, 1, grid.Cell{Value: grid.ErrorValue(), Formula: "=B2"})
	g.Set(2, 3, grid.Cell{Value: grid.Number(0.25)})
	return g
}

func TestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, SaveDocument(sampleGrid(), path))

	g, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, 12, g.Rows)
	assert.Equal(t, 4, g.Columns)
	assert.Equal(t, sampleGrid().Coords(), g.Coords())
	for _, at := range g.Coords() {
		assert.Equal(t, sampleGrid().Cell(at.Row, at.Col), g.Cell(at.Row, at.Col), at.Name())
	}
}

func TestJSON_Layout(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(0, 1, grid.Cell{Value: grid.Number(3), Formula: "=A1+2"})
	data, err := marshalDocument(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":10,"columns":10,"cells":{"0,1":{"value":3,"formula":"=A1+2"}}}`, string(data))
}

func TestJSON_GrowsExtents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rows":2,"columns":2,"cells":{"5,7":{"value":1}}}`), 0o644))

	g, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Rows)
	assert.Equal(t, 8, g.Columns)
	assert.Equal(t, grid.Number(1), g.Cell(5, 7).Value)
}

func TestJSON_Errors(t *testing.T) {
	_, err := unmarshalDocument([]byte(`{"cells":{"x":{"value":1}}}`))
	assert.ErrorContains(t, err, "bad cell key")

	_, err = unmarshalDocument([]byte(`{"cells":{"0,0":{"value":[1]}}}`))
	assert.ErrorContains(t, err, "unsupported value")

	_, err = unmarshalDocument([]byte(`not json`))
	assert.Error(t, err)

	g, err := unmarshalDocument([]byte(`{"cells":{"0,0":{"value":"ERROR"}}}`))
	require.NoError(t, err)
	assert.Equal(t, grid.Text("ERROR"), g.Cell(0, 0).Value, "marker without a formula is plain text")
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	require.NoError(t, SaveDocument(sampleGrid(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5,=A1+2,,\n\"total, net\",=B2,,\n,,,0.25\n", string(data))

	g, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultRows, g.Rows)
	assert.Equal(t, grid.DefaultColumns, g.Columns)
	assert.Equal(t, grid.Cell{Value: grid.Number(5)}, g.Cell(0, 0))
	assert.Equal(t, grid.Cell{Formula: "=A1+2"}, g.Cell(0, 1))
	assert.Equal(t, grid.Cell{Value: grid.Text("total, net")}, g.Cell(1, 0))
	assert.Equal(t, grid.Cell{Value: grid.Number(0.25)}, g.Cell(2, 3))
	assert.Equal(t, 5, g.Len())
}

func TestCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, SaveCSV(grid.New(0, 0), path))

	g, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Zero(t, g.Len())
}

func TestCSV_GrowsExtents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, os.WriteFile(path, []byte(",,,,,,,,,,,x\n"), 0o644))

	g, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 12, g.Columns)
	assert.Equal(t, grid.Text("x"), g.Cell(0, 11).Value)
}

func TestXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	require.NoError(t, SaveDocument(sampleGrid(), path))

	g, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, grid.Cell{Value: grid.Number(5)}, g.Cell(0, 0))
	assert.Equal(t, grid.Cell{Value: grid.Number(7), Formula: "=A1+2"}, g.Cell(0, 1))
	assert.Equal(t, grid.Cell{Value: grid.Text("total, net")}, g.Cell(1, 0))
	assert.Equal(t, grid.Cell{Value: grid.ErrorValue(), Formula: "=B2"}, g.Cell(1, 1))
	assert.Equal(t, grid.Cell{Value: grid.Number(0.25)}, g.Cell(2, 3))
	assert.Equal(t, 12, g.Rows)
	assert.Equal(t, 4, g.Columns)
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.txt")
	assert.ErrorIs(t, SaveDocument(sampleGrid(), path), ErrUnsupportedFormat)

	_, err := LoadDocument(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStore(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "sheets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Put("budget", sampleGrid()))
	require.NoError(t, s.Put("amounts", grid.New(0, 0)))
	assert.ErrorIs(t, s.Put("", sampleGrid()), ErrEmptyName)

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"amounts", "budget"}, names)

	g, err := s.Get("budget")
	require.NoError(t, err)
	assert.Equal(t, sampleGrid().Cell(1, 1), g.Cell(1, 1))
	assert.Equal(t, 12, g.Rows)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	require.NoError(t, s.Delete("budget"))
	assert.ErrorIs(t, s.Delete("budget"), ErrSheetNotFound)
	names, err = s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"amounts"}, names)
}
