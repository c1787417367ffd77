package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFindings(t *testing.T) {
	output := `iolib/drive.py:12:5: F821 undefined name 'svc'
iolib/sheets.py:40: E501 line too long (131 > 127 characters)
2
--statistics noise line
`
	findings := ParseFindings(output)
	require.Len(t, findings, 2)

	assert.Equal(t, Finding{
		File:    "iolib/drive.py",
		Line:    12,
		Col:     5,
		Rule:    "F821",
		Message: "undefined name 'svc'",
	}, findings[0])

	assert.Equal(t, "iolib/sheets.py", findings[1].File)
	assert.Equal(t, 40, findings[1].Line)
	assert.Equal(t, 0, findings[1].Col)
	assert.Equal(t, "E501", findings[1].Rule)
}

func TestParseFindingsEmpty(t *testing.T) {
	assert.Empty(t, ParseFindings(""))
	assert.Empty(t, ParseFindings("0\n"))
}
