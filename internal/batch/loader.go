// Package batch loads a spreadsheet manifest of call recordings to analyze.
package batch

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one call recording row from the manifest.
type Entry struct {
	CallID string `json:"call_id"`
	Source string `json:"source"`
}

// Load reads the first sheet and detects the call-id and audio-source
// columns by header heuristics. Rows whose source does not look like a URL
// or file path are skipped quietly.
func Load(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	sourceIdx := -1
	callIDIdx := -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "audio") || strings.Contains(l, "record") || strings.Contains(l, "url") ||
			(strings.Contains(l, "call") && strings.Contains(l, "link")):
			if sourceIdx == -1 {
				sourceIdx = i
			}
		case strings.Contains(l, "id"):
			if callIDIdx == -1 {
				callIDIdx = i
			}
		}
	}
	if sourceIdx == -1 {
		return nil, fmt.Errorf("no audio source column found")
	}

	var out []Entry
	for i, r := range rows {
		if i == 0 {
			continue
		}
		e := Entry{}
		if callIDIdx >= 0 && callIDIdx < len(r) {
			e.CallID = strings.TrimSpace(r[callIDIdx])
		}
		if sourceIdx < len(r) {
			e.Source = strings.TrimSpace(r[sourceIdx])
		}
		if !looksLikeSource(e.Source) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func looksLikeSource(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") ||
		strings.HasPrefix(l, "/") || strings.HasPrefix(l, "./")
}
