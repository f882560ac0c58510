package writer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"rpytl/internal/charset"
	"rpytl/internal/config"
)

// Entry is one accepted translation stub: the candidate's locator and
// its source text.
type Entry struct {
	Locator int
	Text    string
}

// WriteFunc serializes entries for one destination file.
type WriteFunc func(dst, relPath string, entries []Entry) error

// Writer dispatches to named format writers and owns the run-scoped
// overwrite purge. Construct a fresh Writer per run.
type Writer struct {
	log      zerolog.Logger
	root     string
	locale   string
	encoding string
	mode     string
	cleaned  bool

	formats map[string]WriteFunc
	order   []string
}

// New builds a writer for one run. root is the translation root the
// overwrite purge is scoped to.
func New(log zerolog.Logger, root, locale, encoding, mode string) *Writer {
	w := &Writer{
		log:      log,
		root:     root,
		locale:   locale,
		encoding: encoding,
		mode:     mode,
		formats:  map[string]WriteFunc{},
	}
	w.RegisterFormat(config.FormatRenpy, w.writeRenpy)
	w.RegisterFormat(config.FormatJSON, w.writeJSON)
	w.RegisterFormat(config.FormatCSV, w.writeCSV)
	return w
}

// RegisterFormat adds or replaces a named format writer.
func (w *Writer) RegisterFormat(name string, f WriteFunc) {
	if _, exists := w.formats[name]; !exists {
		w.order = append(w.order, name)
	} else {
		w.log.Debug().Str("format", name).Msg("replacing writer format")
	}
	w.formats[name] = f
}

// UnregisterFormat removes a named format writer.
func (w *Writer) UnregisterFormat(name string) bool {
	if _, ok := w.formats[name]; !ok {
		return false
	}
	delete(w.formats, name)
	for i, n := range w.order {
		if n == name {
			w.order = append(w.order[:i:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Formats returns the registered format names.
func (w *Writer) Formats() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Write serializes entries to dst using the named format. In overwrite
// mode the first write of the run purges previously generated files.
func (w *Writer) Write(format, dst, relPath string, entries []Entry) error {
	f, ok := w.formats[format]
	if !ok {
		return fmt.Errorf("unknown writer format %q", format)
	}
	if err := w.PurgeOnce(); err != nil {
		w.log.Warn().Err(err).Msg("purge of previous output incomplete")
	}
	if err := f(dst, relPath, entries); err != nil {
		return err
	}
	w.log.Debug().Int("entries", len(entries)).Str("path", dst).Msg("wrote translation stubs")
	return nil
}

// PurgeOnce removes previously generated output files under the
// translation root. Only acts in overwrite mode, at most once per run;
// removal failures are aggregated and reported, not fatal.
func (w *Writer) PurgeOnce() error {
	if w.mode != config.ModeOverwrite || w.cleaned {
		return nil
	}
	w.cleaned = true

	var merr *multierror.Error
	walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			merr = multierror.Append(merr, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".rpy", ".json", ".csv":
			if err := os.Remove(path); err != nil {
				merr = multierror.Append(merr, fmt.Errorf("remove %s: %w", path, err))
			}
		}
		return nil
	})
	if walkErr != nil {
		merr = multierror.Append(merr, walkErr)
	}
	w.log.Info().Str("root", w.root).Msg("purged previous translation output")
	return merr.ErrorOrNil()
}

// Header is the canonical block header generated files start with.
func (w *Writer) Header() string {
	return "translate " + w.locale + " strings:\n\n"
}

// oldEntryPattern matches previously written old stubs. The
// triple-quoted alternative must come first so a multi-line block is
// not misread as an empty single-quoted one.
var oldEntryPattern = regexp.MustCompile(`old\s+(?:"""([\s\S]*?)"""|"([^"\\]*(?:\\.[^"\\]*)*)")`)

// ExistingTexts parses the trimmed old-entry texts already present in a
// generated file, for append-mode skip filtering. A missing file yields
// an empty set.
func ExistingTexts(path, encoding string) (map[string]struct{}, error) {
	out := map[string]struct{}{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read existing translation: %w", err)
	}
	content, err := charset.Decode(data, encoding)
	if err != nil {
		return nil, err
	}

	for _, m := range oldEntryPattern.FindAllStringSubmatchIndex(content, -1) {
		switch {
		case m[2] >= 0:
			out[strings.TrimSpace(content[m[2]:m[3]])] = struct{}{}
		case m[4] >= 0:
			out[strings.TrimSpace(unescapeQuotes(content[m[4]:m[5]]))] = struct{}{}
		}
	}
	return out, nil
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

func ensureDir(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// appendEncoded encodes content and appends it to dst, creating the
// file when absent.
func (w *Writer) appendEncoded(dst, content string) error {
	data, err := charset.Encode(content, w.encoding)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(dst, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

// writeEncoded encodes content and rewrites dst from scratch.
func (w *Writer) writeEncoded(dst, content string) error {
	data, err := charset.Encode(content, w.encoding)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
