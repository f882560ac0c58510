package writer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

type jsonEntry struct {
	Line        int    `json:"line"`
	Source      string `json:"source"`
	Translation string `json:"translation"`
}

type jsonPayload struct {
	SourceFile string      `json:"source_file"`
	Entries    []jsonEntry `json:"entries"`
}

// writeJSON rewrites dst as a structured export of the entries. The
// destination extension is forced to .json.
func (w *Writer) writeJSON(dst, relPath string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dst = forceExt(dst, ".json")
	if err := ensureDir(dst); err != nil {
		return err
	}

	payload := jsonPayload{
		SourceFile: relPath,
		Entries:    make([]jsonEntry, 0, len(entries)),
	}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, jsonEntry{Line: e.Locator, Source: e.Text})
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	return w.writeEncoded(dst, string(data)+"\n")
}

// writeCSV rewrites dst as a four-column table of the entries. The
// destination extension is forced to .csv.
func (w *Writer) writeCSV(dst, relPath string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dst = forceExt(dst, ".csv")
	if err := ensureDir(dst); err != nil {
		return err
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"Line", "SourceFile", "SourceText", "Translation"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(e.Locator), relPath, e.Text, ""}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return w.writeEncoded(dst, buf.String())
}

func forceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
