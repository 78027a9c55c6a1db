package render

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	textutil "github.com/kk-code-lab/mdblocks/internal/textutil"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// widthCache memoises runewidth lookups. ASCII widths live in a fixed table
// (stored as width+1 so zero means unknown), everything else in a sync.Map.
type widthCache struct {
	mu    sync.RWMutex
	ascii [128]int
	wide  sync.Map
}

func (c *widthCache) width(ru rune) int {
	if ru >= 0 && ru < 128 {
		c.mu.RLock()
		w := c.ascii[ru]
		c.mu.RUnlock()
		if w > 0 {
			return w - 1
		}
		w = max(runewidth.RuneWidth(ru), 0)
		c.mu.Lock()
		c.ascii[ru] = w + 1
		c.mu.Unlock()
		return w
	}

	if cached, ok := c.wide.Load(ru); ok {
		return cached.(int)
	}
	w := max(runewidth.RuneWidth(ru), 0)
	c.wide.Store(ru, w)
	return w
}

func (r *Renderer) cachedRuneWidth(ru rune) int {
	return r.widths.width(ru)
}

// measureTextWidth measures whole grapheme clusters, so an emoji sequence
// counts as the single glyph the terminal draws.
func (r *Renderer) measureTextWidth(text string) int {
	return textutil.DisplayWidth(text)
}

// truncateTextToWidth shortens text to maxWidth cells, ending in an
// ellipsis when something was cut.
func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	ellipsisWidth := max(r.measureTextWidth(ellipsis), 1)
	if maxWidth <= ellipsisWidth {
		return ellipsis
	}

	available := maxWidth - ellipsisWidth
	var b strings.Builder
	used := 0
	for _, ru := range text {
		w := r.cachedRuneWidth(ru)
		if used+w > available {
			break
		}
		b.WriteRune(ru)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// drawTextLine draws text from startX, at most maxWidth cells, attaching
// zero-width runes to the preceding cell. It returns the next free column.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes) && x-startX < maxWidth; {
		mainc := runes[i]
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		r.screen.SetContent(x, y, mainc, combc, style)
		x += max(r.cachedRuneWidth(mainc), 1)
	}
	return x
}

func (r *Renderer) fillRow(startX, y, endX int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
