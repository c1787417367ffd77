package ftp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeName(t *testing.T) {
	tests := []struct {
		name, dir, want string
	}{
		{"/incoming/file1.csv", "/incoming/", "file1.csv"},
		{"file1.csv", "/incoming/", "file1.csv"},
		{"/other/file1.csv", "/incoming/", "/other/file1.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeName(tt.name, tt.dir))
	}
}

func TestReadRejectsNonCSV(t *testing.T) {
	_, err := Read(t.Context(), "ftp.example.com", "/data/file.parquet", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
