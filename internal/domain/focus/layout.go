package focus

import "sync"

// Layout is a server-side model of the reveal board: a fixed header above a
// stack of equal-height cards. It implements Viewport.
type Layout struct {
	mu         sync.Mutex
	boardTop   float64
	cardHeight float64
	gap        float64
	mounted    int
	scrollY    float64
	onScroll   func(y float64)
}

// LayoutOption configures a Layout.
type LayoutOption func(*Layout)

// WithBoardTop sets the document offset of the first card.
func WithBoardTop(px float64) LayoutOption {
	return func(l *Layout) { l.boardTop = px }
}

// WithCardHeight sets the card height.
func WithCardHeight(px float64) LayoutOption {
	return func(l *Layout) {
		if px > 0 {
			l.cardHeight = px
		}
	}
}

// WithCardGap sets the vertical gap between cards.
func WithCardGap(px float64) LayoutOption {
	return func(l *Layout) {
		if px >= 0 {
			l.gap = px
		}
	}
}

// WithScrollHook sets a callback invoked after every scroll.
func WithScrollHook(fn func(y float64)) LayoutOption {
	return func(l *Layout) { l.onScroll = fn }
}

// NewLayout returns an empty board.
func NewLayout(opts ...LayoutOption) *Layout {
	l := &Layout{boardTop: 420, cardHeight: 180, gap: 24}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mount marks the first n cards as rendered and scrolls back to the top.
func (l *Layout) Mount(n int) {
	l.mu.Lock()
	l.mounted = max(0, n)
	l.mu.Unlock()
	l.ScrollTo(0)
}

// Mounted returns how many cards are rendered.
func (l *Layout) Mounted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

// ScrollY implements Viewport.
func (l *Layout) ScrollY() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrollY
}

// ElementTop implements Viewport.
func (l *Layout) ElementTop(index int) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= l.mounted {
		return 0, false
	}
	doc := l.boardTop + float64(index)*(l.cardHeight+l.gap)
	return doc - l.scrollY, true
}

// ScrollTo implements Viewport.
func (l *Layout) ScrollTo(y float64) {
	l.mu.Lock()
	l.scrollY = max(0, y)
	hook, at := l.onScroll, l.scrollY
	l.mu.Unlock()
	if hook != nil {
		hook(at)
	}
}
