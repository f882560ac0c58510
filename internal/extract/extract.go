// Package extract drives the discover, extract, generate pipeline that
// turns game scripts into translation stub files.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"rpytl/internal/charset"
	"rpytl/internal/config"
	"rpytl/internal/events"
	"rpytl/internal/filewalker"
	"rpytl/internal/rules"
	"rpytl/internal/validate"
	"rpytl/internal/writer"
)

// State tracks the pipeline phase.
type State int

const (
	StateIdle State = iota
	StateDiscovering
	StateExtracting
	StateGenerating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateExtracting:
		return "extracting"
	case StateGenerating:
		return "generating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileEntries carries one source file's accepted entries into the
// generation phase.
type FileEntries struct {
	Path    string
	RelPath string
	Entries []writer.Entry
}

// Extractor runs the extraction pipeline for one configuration.
// Construct a fresh Extractor per run: the validation context and the
// writer's purge flag are run-scoped.
type Extractor struct {
	cfg      *config.Config
	log      zerolog.Logger
	bus      *events.Bus
	registry *rules.Registry
	chain    *validate.Chain
	vctx     *validate.Context
	out      *writer.Writer
	state    State
}

// New assembles the pipeline. Rule tables are loaded from the
// configured rules directory, falling back to the built-in defaults.
func New(cfg *config.Config, log zerolog.Logger, bus *events.Bus) *Extractor {
	tables, err := config.LoadRuleTables(cfg.RulesDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.RulesDir).Msg("using built-in rule tables")
		tables = config.DefaultTables()
	}
	return &Extractor{
		cfg:      cfg,
		log:      log,
		bus:      bus,
		registry: rules.FromTables(log, tables),
		chain:    validate.NewChain(log),
		vctx:     validate.NewContext(),
		out:      writer.New(log, cfg.TranslationRoot(), cfg.Locale, cfg.Encoding, cfg.WriteMode),
		state:    StateIdle,
	}
}

// State reports the current pipeline phase.
func (e *Extractor) State() State {
	return e.state
}

func (e *Extractor) setState(s State) {
	e.state = s
	e.log.Debug().Str("state", s.String()).Msg("pipeline state")
}

// Run executes one pass and returns the number of entries written. A
// cancelled context stops after the current file and still generates
// output from what was extracted so far.
func (e *Extractor) Run(ctx context.Context) (count int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.setState(StateFailed)
			err = fmt.Errorf("extraction aborted: %v", rec)
			e.log.Error().Err(err).Msg("pipeline panic")
		}
	}()

	e.vctx.Reset()

	srcRoot := e.cfg.SourceRoot()
	info, statErr := os.Stat(srcRoot)
	if statErr != nil || !info.IsDir() {
		e.setState(StateFailed)
		return 0, fmt.Errorf("invalid game directory, missing game folder: %s", srcRoot)
	}
	tlRoot := e.cfg.TranslationRoot()
	if err := os.MkdirAll(tlRoot, 0o755); err != nil {
		e.setState(StateFailed)
		return 0, fmt.Errorf("create translation dir: %w", err)
	}

	e.bus.Publish(events.Event{Name: events.ExtractionStarted, Path: e.cfg.GameDir})

	e.setState(StateDiscovering)
	e.log.Info().Str("root", srcRoot).Msg("searching game files")
	walker := filewalker.New(e.log, e.cfg.FilePatterns, e.cfg.Recursive, tlRoot)
	files, err := walker.Walk(srcRoot)
	if err != nil {
		e.setState(StateFailed)
		return 0, err
	}
	if len(files) == 0 {
		e.log.Info().Msg("no matching game files found")
		e.setState(StateDone)
		e.bus.Publish(events.Event{Name: events.ExtractionCompleted, Count: 0})
		return 0, nil
	}

	e.setState(StateExtracting)
	groups := e.extractFiles(ctx, files)

	e.setState(StateGenerating)
	count = e.generate(groups)

	e.setState(StateDone)
	e.bus.Publish(events.Event{Name: events.ExtractionCompleted, Count: count})
	e.log.Info().Int("entries", count).Msg("extraction finished")
	return count, nil
}

// extractFiles runs rules and validators over each file, keeping
// per-file entry groups in discovery order.
func (e *Extractor) extractFiles(ctx context.Context, files []string) []FileEntries {
	var groups []FileEntries
	total := len(files)

	for i, path := range files {
		if ctx.Err() != nil {
			e.log.Warn().Int("processed", i).Int("total", total).
				Msg("cancelled, generating from partial results")
			break
		}

		if g, ok := e.extractFile(path); ok {
			groups = append(groups, g)
		}

		e.bus.Publish(events.Event{Name: events.ExtractionProgress, Current: i + 1, Total: total})
	}

	e.bus.Publish(events.Event{Name: events.ExtractionProgress, Current: total, Total: total})
	return groups
}

// extractFile reads, extracts, and validates one file. Any failure,
// panics included, skips the file without aborting the run.
func (e *Extractor) extractFile(path string) (g FileEntries, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			e.fileError(path, fmt.Errorf("processing panicked: %v", rec))
			g, ok = FileEntries{}, false
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		e.fileError(path, fmt.Errorf("read file: %w", err))
		return FileEntries{}, false
	}
	content, err := charset.Decode(data, e.cfg.Encoding)
	if err != nil {
		e.fileError(path, fmt.Errorf("decode file: %w", err))
		return FileEntries{}, false
	}
	e.bus.Publish(events.Event{Name: events.FileLoaded, Path: path, Count: len(content)})
	e.log.Debug().Str("file", filepath.Base(path)).Msg("processing file")

	candidates := e.registry.ExtractAll(rules.NewSource(path, content), e.cfg.Extractors)

	seen := map[string]struct{}{}
	entries := make([]writer.Entry, 0, len(candidates))
	for _, c := range candidates {
		if !e.chain.Validate(e.vctx, c.Text, e.cfg.Validators) {
			continue
		}
		if _, dup := seen[c.Text]; dup {
			continue
		}
		seen[c.Text] = struct{}{}
		entries = append(entries, writer.Entry{Locator: c.Locator, Text: c.Text})
	}
	if len(entries) == 0 {
		return FileEntries{}, false
	}

	rel, err := filepath.Rel(e.cfg.SourceRoot(), path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	e.log.Info().Str("file", filepath.Base(path)).Int("entries", len(entries)).Msg("extracted entries")
	return FileEntries{Path: path, RelPath: rel, Entries: entries}, true
}

// generate writes per-file stub destinations, routing sentinel-locator
// entries to the compound name writer when enabled. Per-destination
// failures are logged and skipped.
func (e *Extractor) generate(groups []FileEntries) int {
	total := 0
	for _, g := range groups {
		total += len(g.Entries)
	}
	if total == 0 {
		e.log.Info().Msg("no translatable text found")
		return 0
	}
	e.log.Info().Int("entries", total).Msg("generating translation files")

	// Purge before skip-translated reads so stale output cannot mask
	// entries in overwrite mode.
	if err := e.out.PurgeOnce(); err != nil {
		e.log.Warn().Err(err).Msg("purge of previous output incomplete")
	}

	written := 0
	filesTouched := 0
	var nameGroups []writer.NameGroup

	for _, g := range groups {
		entries := g.Entries
		if e.cfg.PersonNameWriter {
			var sentinel []writer.Entry
			entries, sentinel = splitSentinels(g.Entries)
			if len(sentinel) > 0 {
				nameGroups = append(nameGroups, writer.NameGroup{
					SourceBase: filepath.Base(g.Path),
					Entries:    sentinel,
				})
			}
		}
		if len(entries) == 0 {
			continue
		}

		dst := filepath.Join(e.cfg.TranslationRoot(), filepath.FromSlash(g.RelPath))
		entries = e.withoutTranslated(dst, entries)
		if len(entries) == 0 {
			continue
		}

		if err := e.out.Write(e.cfg.WriterFormat, dst, g.RelPath, entries); err != nil {
			e.fileError(dst, fmt.Errorf("write translation: %w", err))
			continue
		}
		written += len(entries)
		filesTouched++
		e.log.Info().Str("file", g.RelPath).Int("entries", len(entries)).Msg("generated translation file")
		e.bus.Publish(events.Event{Name: events.FileSaved, Path: dst, Count: len(entries)})
	}

	if n := e.generateNames(nameGroups); n > 0 {
		written += n
		filesTouched++
	}

	e.log.Info().Int("files", filesTouched).Int("entries", written).Msg("generation finished")
	return written
}

// generateNames writes the accumulated sentinel entries to the shared
// names file and returns how many were written.
func (e *Extractor) generateNames(groups []writer.NameGroup) int {
	if len(groups) == 0 {
		return 0
	}

	dst := e.out.NamesFile()
	kept := make([]writer.NameGroup, 0, len(groups))
	n := 0
	for _, g := range groups {
		g.Entries = e.withoutTranslated(dst, g.Entries)
		if len(g.Entries) == 0 {
			continue
		}
		kept = append(kept, g)
		n += len(g.Entries)
	}
	if len(kept) == 0 {
		return 0
	}

	if err := e.out.WriteNames(kept); err != nil {
		e.fileError(dst, fmt.Errorf("write person names: %w", err))
		return 0
	}
	e.bus.Publish(events.Event{Name: events.FileSaved, Path: dst, Count: n})
	return n
}

// withoutTranslated drops entries whose text is already present in the
// destination file. Applies only in renpy format with skip-translated
// enabled; parse failures keep all entries.
func (e *Extractor) withoutTranslated(dst string, entries []writer.Entry) []writer.Entry {
	if !e.cfg.SkipTranslated || e.cfg.WriterFormat != config.FormatRenpy {
		return entries
	}
	existing, err := writer.ExistingTexts(dst, e.cfg.Encoding)
	if err != nil {
		e.log.Warn().Err(err).Str("path", dst).Msg("cannot read existing translation")
		return entries
	}
	if len(existing) == 0 {
		return entries
	}

	kept := make([]writer.Entry, 0, len(entries))
	for _, en := range entries {
		if _, ok := existing[strings.TrimSpace(en.Text)]; ok {
			continue
		}
		kept = append(kept, en)
	}
	return kept
}

func splitSentinels(entries []writer.Entry) (normal, sentinel []writer.Entry) {
	for _, en := range entries {
		if en.Locator < 0 {
			sentinel = append(sentinel, en)
		} else {
			normal = append(normal, en)
		}
	}
	return normal, sentinel
}

func (e *Extractor) fileError(path string, err error) {
	e.log.Error().Err(err).Str("path", path).Msg("file skipped")
	e.bus.Publish(events.Event{Name: events.ExtractionError, Path: path, Message: err.Error()})
}
