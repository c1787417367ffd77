package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRange(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       string
	}{
		{1, 1, "Sheet1!A1:A1"},
		{3, 2, "Sheet1!A1:B3"},
		{100, 26, "Sheet1!A1:Z100"},
	}
	for _, tt := range tests {
		got, err := ValueRange(tt.rows, tt.cols)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestValueRangeTooWide(t *testing.T) {
	_, err := ValueRange(10, 27)
	assert.ErrorIs(t, err, ErrTooManyColumns)
}

func TestFormatCellValue(t *testing.T) {
	assert.Equal(t, 1.2, FormatCellValue(1.2))
	assert.Equal(t, "hello", FormatCellValue("hello"))

	date := time.Date(2022, 10, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2022-10-13", FormatCellValue(date))

	dt := time.Date(2022, 10, 13, 11, 54, 13, 0, time.UTC)
	assert.Equal(t, "2022-10-13 11:54:13", FormatCellValue(dt))

	dtMicro := time.Date(2022, 10, 13, 11, 54, 13, 123456000, time.UTC)
	assert.Equal(t, "2022-10-13 11:54:13.123456", FormatCellValue(dtMicro))
}

func TestFramesFromValuesWithHeader(t *testing.T) {
	f, err := FramesFromValues([][]any{
		{"id", "name"},
		{1, "alpha"},
		{2}, // trailing empty cell omitted by the API
	}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, f.Columns())
	require.Equal(t, 2, f.Len())
	assert.Equal(t, []any{2, nil}, f.Row(1))
}

func TestFramesFromValuesNoHeader(t *testing.T) {
	f, err := FramesFromValues([][]any{
		{"a", "b", "c"},
		{"d"},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2"}, f.Columns())
	assert.Equal(t, 2, f.Len())
}

func TestFramesFromValuesEmpty(t *testing.T) {
	f, err := FramesFromValues(nil, true)
	require.NoError(t, err)
	assert.True(t, f.Empty())
}
