package writer

import (
	"fmt"
	"os"
	"strings"

	"rpytl/internal/charset"
)

// writeRenpy appends engine translation blocks to dst. The locale
// header is written when the destination is new or lacks it; entries
// follow as old/new stubs, triple-quoted when the text spans lines.
func (w *Writer) writeRenpy(dst, relPath string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := ensureDir(dst); err != nil {
		return err
	}

	hasHeader, err := w.hasHeader(dst)
	if err != nil {
		return err
	}

	var buf strings.Builder
	if !hasHeader {
		buf.WriteString(w.Header())
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "    # %s line %d\n", relPath, e.Locator)
		if strings.Contains(e.Text, "\n") {
			buf.WriteString("    old \"\"\"\n")
			buf.WriteString(e.Text)
			buf.WriteString("\n    \"\"\"\n")
			buf.WriteString("    new \"\"\"\n    \"\"\"\n\n")
		} else {
			fmt.Fprintf(&buf, "    old \"%s\"\n    new \"\"\n\n", escapeQuotes(e.Text))
		}
	}
	return w.appendEncoded(dst, buf.String())
}

func (w *Writer) hasHeader(dst string) (bool, error) {
	data, err := os.ReadFile(dst)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read destination: %w", err)
	}
	content, err := charset.Decode(data, w.encoding)
	if err != nil {
		return false, err
	}
	return strings.Contains(content, w.Header()), nil
}
