package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaFor(columns ...Column) TableSchema {
	return TableSchema{Name: "artist", Columns: columns}
}

func TestBuildColumnMap_KnownTypes(t *testing.T) {
	schema := schemaFor(
		Column{Name: "id", DataType: "INT"},
		Column{Name: "name", DataType: "TEXT"},
		Column{Name: "t", DataType: "TIMESTAMP"},
		Column{Name: "pts", DataType: "INTEGER[]"},
		Column{Name: "live", DataType: "BOOLEAN"},
	)

	cm, err := BuildColumnMap(schema)
	require.NoError(t, err)
	require.Len(t, cm, 5)
	assert.Equal(t, ColumnConverter{Name: "id", Kind: ConvInt}, cm[0])
	assert.Equal(t, ColumnConverter{Name: "name", Kind: ConvUtf8Default}, cm[1])
	assert.Equal(t, ColumnConverter{Name: "t", Kind: ConvTimestamp}, cm[2])
	assert.Equal(t, ColumnConverter{Name: "pts", Kind: ConvIntArray}, cm[3])
	assert.Equal(t, ColumnConverter{Name: "live", Kind: ConvBool}, cm[4])
}

func TestBuildColumnMap_VarcharAndCharVariants(t *testing.T) {
	schema := schemaFor(
		Column{Name: "a", DataType: "VARCHAR(255)"},
		Column{Name: "b", DataType: "CHAR(1)"},
		Column{Name: "c", DataType: "UUID"},
	)
	cm, err := BuildColumnMap(schema)
	require.NoError(t, err)
	for _, c := range cm {
		assert.Equal(t, ConvUtf8Default, c.Kind)
	}
}

func TestBuildColumnMap_UnknownDataTypeIsFatal(t *testing.T) {
	schema := schemaFor(Column{Name: "geom", DataType: "GEOMETRY"})
	_, err := BuildColumnMap(schema)
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "GEOMETRY")
}

func TestConvertField_DumpRowToDocument(t *testing.T) {
	// 42  Foo  2013-07-21 22:47:57.660809+00  {150,77950}  t
	id, ok, err := convertField(ConvInt, "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	name, ok, err := convertField(ConvUtf8Default, "Foo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Foo", name)

	ts, ok, err := convertField(ConvTimestamp, "2013-07-21 22:47:57.660809+00")
	require.NoError(t, err)
	require.True(t, ok)
	tv, ok := ts.(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2013, tv.Year())
	assert.Equal(t, time.July, tv.Month())
	assert.Equal(t, 21, tv.Day())
	assert.Equal(t, 22, tv.Hour())
	assert.Equal(t, 47, tv.Minute())
	assert.Equal(t, 57, tv.Second())
	assert.Equal(t, time.UTC, tv.Location())

	pts, ok, err := convertField(ConvIntArray, "{150,77950}")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{150, 77950}, pts)

	live, ok, err := convertField(ConvBool, "t")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, live)
}

func TestConvertField_TimestampFourDigitZone(t *testing.T) {
	ts, ok, err := convertField(ConvTimestamp, "2013-07-21 22:47:57-0700")
	require.NoError(t, err)
	require.True(t, ok)
	tv := ts.(time.Time)
	assert.Equal(t, time.UTC, tv.Location())
	assert.Equal(t, 5, tv.Hour(), "22:47 at -0700 is 05:47 the next day in UTC")
	assert.Equal(t, 22, tv.Day())
}

func TestConvertField_PGNullOmitsField(t *testing.T) {
	for _, kind := range []ConverterKind{ConvBool, ConvInt, ConvTimestamp, ConvIntArray, ConvPoint, ConvUtf8Default} {
		v, ok, err := convertField(kind, `\N`)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	}
}

func TestConvertField_EmptyIntArrayBoundary(t *testing.T) {
	arr, ok, err := convertField(ConvIntArray, "{}")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{}, arr)
}

func TestConvertField_EmptyUtf8StringOmitsField(t *testing.T) {
	v, ok, err := convertField(ConvUtf8Default, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestConvertField_Point(t *testing.T) {
	pt, ok, err := convertField(ConvPoint, "(1.5,-2.25)")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, -2.25}, pt)
}

func TestConvertField_MalformedValuesError(t *testing.T) {
	cases := []struct {
		kind ConverterKind
		raw  string
	}{
		{ConvBool, "yes"},
		{ConvInt, "not-a-number"},
		{ConvTimestamp, "not-a-timestamp"},
		{ConvIntArray, "[1,2]"},
		{ConvIntArray, "{1,x}"},
		{ConvPoint, "1.5,2.5"},
		{ConvPoint, "(1.5)"},
	}
	for _, c := range cases {
		_, ok, err := convertField(c.kind, c.raw)
		assert.Error(t, err, c.raw)
		assert.False(t, ok, c.raw)
	}
}
