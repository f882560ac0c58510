package validate

import (
	"sync"

	"github.com/rs/zerolog"

	"rpytl/internal/textutil"
)

// Context carries run-scoped validation state: the global seen-set the
// dedup validator consults. A fresh Context (or Reset) starts every run.
type Context struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewContext returns an empty validation context.
func NewContext() *Context {
	return &Context{seen: map[string]struct{}{}}
}

// Reset clears the seen-set.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = map[string]struct{}{}
}

// CheckAndAdd reports whether text was unseen, recording it in the same
// locked step so a given text is accepted at most once per run.
func (c *Context) CheckAndAdd(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[text]; dup {
		return false
	}
	c.seen[text] = struct{}{}
	return true
}

// Len returns the number of distinct accepted texts.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// Func is a validator predicate. Only the dedup validator uses ctx.
type Func func(ctx *Context, text string) bool

// Chain holds named validators and applies a configured sequence in
// order, short-circuiting on the first rejection.
type Chain struct {
	log   zerolog.Logger
	funcs map[string]Func
	order []string
}

// NewChain returns a chain with all built-in validators registered.
func NewChain(log zerolog.Logger) *Chain {
	c := &Chain{log: log, funcs: map[string]Func{}}
	c.Register("non_empty", nonEmpty)
	c.Register("has_alphanumeric", hasAlphanumeric)
	c.Register("no_invalid_chars", noInvalidChars)
	c.Register("string_consistency", newStringConsistency(log))
	c.Register("no_underscore", noUnderscore)
	c.Register("no_image_refs", noImageRefs)
	c.Register("global_deduplicate", globalDeduplicate)
	return c
}

// Register adds or replaces a named validator.
func (c *Chain) Register(name string, f Func) {
	if _, exists := c.funcs[name]; !exists {
		c.order = append(c.order, name)
	}
	c.funcs[name] = f
}

// Unregister removes a named validator, reporting whether it existed.
func (c *Chain) Unregister(name string) bool {
	if _, ok := c.funcs[name]; !ok {
		return false
	}
	delete(c.funcs, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the registered validator names in registration order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Validate runs the named validators over text in order. Unknown names
// are skipped with a diagnostic; an empty list accepts everything.
func (c *Chain) Validate(ctx *Context, text string, names []string) bool {
	for _, name := range names {
		f, ok := c.funcs[name]
		if !ok {
			c.log.Debug().Str("validator", name).Msg("unknown validator, skipping")
			continue
		}
		if !f(ctx, text) {
			c.log.Debug().
				Str("validator", name).
				Str("text", textutil.Truncate(textutil.FirstLine(text), 40)).
				Msg("candidate rejected")
			return false
		}
	}
	return true
}
