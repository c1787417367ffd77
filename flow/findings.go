package flow

import (
	"regexp"
	"strconv"
	"strings"
)

// Finding is one static-analysis result.
type Finding struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Col     int    `json:"col,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// Analyser output lines look like:
//
//	iolib/drive.py:12:5: F821 undefined name 'svc'
//	iolib/sheets.py:40:80: E501 line too long (131 > 127 characters)
var findingPattern = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(\S+)\s+(.*)$`)

// ParseFindings extracts findings from analyser output.
// Lines that don't match the location format (counts, statistics,
// source snippets) are ignored.
func ParseFindings(output string) []Finding {
	var findings []Finding
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		m := findingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		col := 0
		if m[3] != "" {
			col, _ = strconv.Atoi(m[3])
		}

		findings = append(findings, Finding{
			File:    m[1],
			Line:    lineNo,
			Col:     col,
			Rule:    m[4],
			Message: m[5],
		})
	}
	return findings
}
