//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_String(t *testing.T) {
	assert.Equal(t, "B7", CellCoordinate("b", 7).String())
	assert.Equal(t, "AA12", CellCoordinate("AA", 12).String())
	assert.Equal(t, "Row 1", RowCoordinate(1).String())
	assert.True(t, RowCoordinate(3).IsRow())
	assert.False(t, CellCoordinate("A", 3).IsRow())
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Coordinate
		wantError bool
	}{
		{name: "single cell", input: "C4", want: CellCoordinate("C", 4)},
		{name: "lower case column", input: "ab10", want: CellCoordinate("AB", 10)},
		{name: "row marker", input: "Row 2", want: RowCoordinate(2)},
		{name: "row marker without number", input: "Row x", wantError: true},
		{name: "row zero", input: "A0", wantError: true},
		{name: "missing column", input: "12", wantError: true},
		{name: "missing row", input: "AB", wantError: true},
		{name: "garbage column", input: "A$3", wantError: true},
		{name: "row before column", input: "3A", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViolations_AddKeepsDiscoveryOrder(t *testing.T) {
	log := NewViolations()
	assert.True(t, log.Empty())

	log.Add(CellCoordinate("B", 2), 2, "first")
	log.Add(RowCoordinate(1), 1, "second")
	log.Add(CellCoordinate("B", 2), 2, "first")

	require.Equal(t, 3, log.Len())
	assert.Equal(t, "B2", log.Violations[0].Coordinate.String())
	assert.Equal(t, "Row 1", log.Violations[1].Coordinate.String())
	// no deduplication
	assert.Equal(t, log.Violations[0], log.Violations[2])
}

func TestViolations_AddCopiesMessages(t *testing.T) {
	messages := []string{"a", "b"}
	log := NewViolations()
	log.Add(CellCoordinate("A", 1), 1, messages...)
	messages[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, log.Violations[0].Messages)
	assert.Equal(t, "a, b", log.Violations[0].Text())
}

func TestViolations_JSONLocation(t *testing.T) {
	log := NewViolations()
	log.Add(CellCoordinate("D", 5), 6, "Cell can not be blank")
	log.Add(RowCoordinate(1), 1, "The order is not valid")

	data, err := json.Marshal(log)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"location":"D5"`)
	assert.Contains(t, string(data), `"location":"Row 1"`)
	assert.Contains(t, string(data), `"sheet_row":6`)

	var decoded Violations
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, log.Violations, decoded.Violations)
}

func TestViolations_NilLen(t *testing.T) {
	var log *Violations
	assert.Equal(t, 0, log.Len())
	assert.True(t, log.Empty())
}
