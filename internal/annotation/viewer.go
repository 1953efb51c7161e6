package annotation

import (
	"fmt"

	"paperless-annotator/internal/domain"
)

// Viewer holds page navigation and zoom. Transitions are pure: each method
// returns the next state and leaves the receiver untouched.
type Viewer struct {
	page        int
	pageCount   int
	scaleTenths int
	viewW       float64
	viewH       float64
}

// NewViewer returns the state of a viewer before any document is loaded.
func NewViewer() Viewer {
	return Viewer{page: 1, scaleTenths: domain.DefaultScaleTenths}
}

// WithPageCount records the number of pages of the loaded document and
// clamps the current page into range.
func (v Viewer) WithPageCount(n int) Viewer {
	if n < 0 {
		n = 0
	}
	v.pageCount = n
	if v.page > n {
		v.page = max(n, 1)
	}
	return v
}

// Next advances one page, stopping at the last page.
func (v Viewer) Next() Viewer {
	if v.page < v.pageCount {
		v.page++
	}
	return v
}

// Prev goes back one page, stopping at the first page.
func (v Viewer) Prev() Viewer {
	if v.page > 1 {
		v.page--
	}
	return v
}

// GoTo jumps to a 1-based page index.
func (v Viewer) GoTo(index int) (Viewer, error) {
	if index < 1 || index > v.pageCount {
		return v, fmt.Errorf("page %d of %d: %w", index, v.pageCount, domain.ErrPageIndex)
	}
	v.page = index
	return v, nil
}

// ZoomIn increases the scale by 0.1 up to the maximum.
func (v Viewer) ZoomIn() Viewer {
	if v.scaleTenths < domain.MaxScaleTenths {
		v.scaleTenths++
	}
	return v
}

// ZoomOut decreases the scale by 0.1 down to the minimum.
func (v Viewer) ZoomOut() Viewer {
	if v.scaleTenths > domain.MinScaleTenths {
		v.scaleTenths--
	}
	return v
}

// WithViewport records the realized pixel size of the last render.
func (v Viewer) WithViewport(w, h float64) Viewer {
	v.viewW, v.viewH = w, h
	return v
}

// Page returns the 1-based current page.
func (v Viewer) Page() int { return v.page }

// PageCount returns the number of pages.
func (v Viewer) PageCount() int { return v.pageCount }

// Scale returns the render scale.
func (v Viewer) Scale() float64 { return float64(v.scaleTenths) / 10 }

// Viewport returns the pixel size of the last render.
func (v Viewer) Viewport() (float64, float64) { return v.viewW, v.viewH }

// State returns the serializable view of v.
func (v Viewer) State() domain.ViewerState {
	return domain.ViewerState{
		CurrentPage:    v.page,
		PageCount:      v.pageCount,
		Scale:          v.Scale(),
		ViewportWidth:  v.viewW,
		ViewportHeight: v.viewH,
	}
}
