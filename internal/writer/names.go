package writer

import (
	"fmt"
	"path/filepath"
	"strings"

	"rpytl/internal/rules"
)

// NameGroup carries the sentinel-locator entries extracted from one
// source file, in encounter order.
type NameGroup struct {
	SourceBase string
	Entries    []Entry
}

// NamesFile is the fixed destination all compound-name stubs share.
func (w *Writer) NamesFile() string {
	return filepath.Join(w.root, "names", "person_names.rpy")
}

// WriteNames appends compound-name stubs to the shared names file. Each
// group is introduced by a comment naming its source file; every
// first/second couple yields stubs for the first part, the second part,
// and the space-joined full name.
func (w *Writer) WriteNames(groups []NameGroup) error {
	if err := w.PurgeOnce(); err != nil {
		w.log.Warn().Err(err).Msg("purge of previous output incomplete")
	}

	dst := w.NamesFile()
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
	written := 0
	for _, g := range groups {
		stubs := composeNameStubs(g.Entries)
		if len(stubs) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "    # From %s\n", g.SourceBase)
		for _, s := range stubs {
			fmt.Fprintf(&buf, "    old \"%s\"\n    new \"\"\n\n", escapeQuotes(s))
		}
		written += len(stubs)
	}
	if written == 0 {
		return nil
	}
	if err := w.appendEncoded(dst, buf.String()); err != nil {
		return err
	}
	w.log.Debug().Int("entries", written).Str("path", dst).Msg("wrote person name stubs")
	return nil
}

// composeNameStubs pairs first-name parts with the second-name part
// that follows them. Unpaired parts still produce their own stub.
func composeNameStubs(entries []Entry) []string {
	var out []string
	var first string
	hasFirst := false
	for _, e := range entries {
		switch e.Locator {
		case rules.LocFirstName:
			if hasFirst {
				out = append(out, first)
			}
			first, hasFirst = e.Text, true
		case rules.LocSecondName:
			if hasFirst {
				out = append(out, first, e.Text, first+" "+e.Text)
				hasFirst = false
			} else {
				out = append(out, e.Text)
			}
		}
	}
	if hasFirst {
		out = append(out, first)
	}
	return out
}
