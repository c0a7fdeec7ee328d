// Package markdown provides styled markdown rendering for the TUI.
package markdown

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/surfaces/internal/cachemanager"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with surfaces-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a markdown renderer with the given word wrap width and
// style. style should be "dark" or "light"; empty defaults to "dark".
// A fixed style path is used instead of WithAutoStyle() because auto
// detection queries the terminal and the OSC response can leak into
// Bubble Tea's input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// CachedRenderer renders markdown at arbitrary widths, pooling one
// glamour renderer per width and caching rendered output. Shared cards
// render their body once per width, however many occurrences exist.
type CachedRenderer struct {
	style     string
	renderers map[int]*Renderer
	cache     cachemanager.CacheManager[string, string]
	ttl       time.Duration
}

// NewCached creates a caching renderer with the given glamour style.
func NewCached(style string, cache cachemanager.CacheManager[string, string]) *CachedRenderer {
	return &CachedRenderer{
		style:     style,
		renderers: make(map[int]*Renderer),
		cache:     cache,
		ttl:       cachemanager.DefaultExpiration,
	}
}

// Render returns the rendering of markdown wrapped at width, computing
// and caching it on a miss.
func (r *CachedRenderer) Render(ctx context.Context, markdown string, width int) (string, error) {
	return cachemanager.ReadThrough(ctx, r.cache, r.key(markdown, width), r.ttl, func() (string, error) {
		renderer, ok := r.renderers[width]
		if !ok {
			var err error
			renderer, err = New(width, r.style)
			if err != nil {
				return "", err
			}
			r.renderers[width] = renderer
		}
		return renderer.Render(markdown)
	})
}

func (r *CachedRenderer) key(markdown string, width int) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(markdown))
	return fmt.Sprintf("md:%s:%d:%x", r.style, width, h.Sum64())
}
