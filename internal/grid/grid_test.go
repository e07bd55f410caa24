package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		name string
		want Coord
	}{
		{"A1", Coord{0, 0}},
		{"B12", Coord{11, 1}},
		{"Z1", Coord{0, 25}},
		{"AA1", Coord{0, 26}},
		{"AZ3", Coord{2, 51}},
		{"BA1", Coord{0, 52}},
	}
	for _, tc := range cases {
		got, err := ParseRef(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
		assert.Equal(t, tc.name, got.Name())
	}

	for _, bad := range []string{"", "A", "1", "a1", "A0", "A1B", "$A$1", "A-1"} {
		_, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrInvalidRef, bad)
	}
}

func TestColToName(t *testing.T) {
	assert.Equal(t, "A", ColToName(0))
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
	assert.Equal(t, "ZZ", ColToName(701))
	assert.Equal(t, "AAA", ColToName(702))
	assert.Equal(t, "?", ColToName(-1))
	assert.Equal(t, "C7", ColRowToName(2, 6))
}

func TestGrid(t *testing.T) {
	g := New(0, 0)
	assert.Equal(t, DefaultRows, g.Rows)
	assert.Equal(t, DefaultColumns, g.Columns)

	t.Run("missing_cells_are_empty", func(t *testing.T) {
		c := g.Cell(3, 4)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, "", c.Input())
		_, ok := g.Lookup(3, 4)
		assert.False(t, ok)
	})

	t.Run("set_clear", func(t *testing.T) {
		g.Set(2, 1, Cell{Value: Number(4)})
		g.Set(0, 3, Cell{Value: Text("x")})
		g.Set(0, 0, Cell{Value: Number(7), Formula: "=3+4"})
		assert.Equal(t, 3, g.Len())
		assert.Equal(t, []Coord{{0, 0}, {0, 3}, {2, 1}}, g.Coords())

		maxR, maxC := g.Bounds()
		assert.Equal(t, 2, maxR)
		assert.Equal(t, 3, maxC)

		g.Set(0, 3, Cell{})
		assert.Equal(t, 2, g.Len())
		g.Clear(2, 1)
		assert.Equal(t, []Coord{{0, 0}}, g.Coords())
	})

	t.Run("grow", func(t *testing.T) {
		g.Grow(14, 2)
		assert.Equal(t, 15, g.Rows)
		assert.Equal(t, DefaultColumns, g.Columns)
	})
}

func TestValue(t *testing.T) {
	f, ok := Number(2.5).Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	f, ok = Text(" 12 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, f)

	_, ok = Text("twelve").Float()
	assert.False(t, ok)
	_, ok = ErrorValue().Float()
	assert.False(t, ok)
	_, ok = Value{}.Float()
	assert.False(t, ok)

	assert.Equal(t, "14", Number(14).String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "-0.25", Number(-0.25).String())
	assert.Equal(t, ErrorMarker, ErrorValue().String())
	assert.Equal(t, "", Value{}.String())

	c := Cell{Value: ErrorValue(), Formula: "=A1/0"}
	assert.Equal(t, "=A1/0", c.Input())
	assert.False(t, c.IsEmpty())
}

func TestParseInput(t *testing.T) {
	assert.Equal(t, Cell{Value: Number(1.5)}, ParseInput(" 1.5 "))
	assert.Equal(t, Cell{Value: Text("abc")}, ParseInput("abc"))
	assert.Equal(t, Cell{Formula: "=A1+1"}, ParseInput("=A1+1"))
	assert.True(t, ParseInput("").IsEmpty())
	assert.Equal(t, Cell{Value: Text("NaN")}, ParseInput("NaN"))
}
