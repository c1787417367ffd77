package bigquery

import (
	"testing"

	bq "cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableID(t *testing.T) {
	tests := []struct {
		id   string
		want TableRef
	}{
		{"events", TableRef{Table: "events"}},
		{"analytics.events", TableRef{Dataset: "analytics", Table: "events"}},
		{"acme.analytics.events", TableRef{Project: "acme", Dataset: "analytics", Table: "events"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ref, err := ParseTableID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestParseTableIDTooManyParts(t *testing.T) {
	_, err := ParseTableID("a.b.c.d")
	assert.ErrorIs(t, err, ErrInvalidTableID)
}

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema([]FieldSpec{
		{Name: "id", Type: "integer", Mode: "REQUIRED"},
		{Name: "name", Type: "STRING"},
		{Name: "tags", Type: "string", Mode: "repeated"},
	})
	require.NoError(t, err)
	require.Len(t, schema, 3)

	assert.Equal(t, bq.FieldType("INTEGER"), schema[0].Type)
	assert.True(t, schema[0].Required)
	assert.False(t, schema[1].Required)
	assert.True(t, schema[2].Repeated)
}

func TestParseSchemaInvalid(t *testing.T) {
	_, err := ParseSchema([]FieldSpec{{Type: "STRING"}})
	assert.Error(t, err, "field without name")

	_, err = ParseSchema([]FieldSpec{{Name: "x", Type: "STRING", Mode: "SOMETIMES"}})
	assert.Error(t, err, "invalid mode")
}

func TestTableIDSubstitution(t *testing.T) {
	m := &TableManager{ref: TableRef{Project: "p", Dataset: "d", Table: "t"}}
	assert.Equal(t, "p.d.t", m.TableID())
}
