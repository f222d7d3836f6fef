package viewport

import (
	"sync"

	"github.com/ChaseRain/deckgen/internal/draw"
)

const (
	DefaultPadding = 40.0
	MinScale       = 0.1
)

// ComputeScale returns the uniform scale that fits a canvas inside a container
// after subtracting padding, never below MinScale.
func ComputeScale(containerW, containerH, padding, canvasW, canvasH float64) float64 {
	if canvasW <= 0 || canvasH <= 0 {
		return MinScale
	}
	s := min((containerW-padding)/canvasW, (containerH-padding)/canvasH)
	return max(MinScale, s)
}

// Placement is a scale plus the offset that centers the scaled canvas.
type Placement struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Place fits a canvas into a container and centers it.
func Place(containerW, containerH, padding, canvasW, canvasH float64) Placement {
	s := ComputeScale(containerW, containerH, padding, canvasW, canvasH)
	return center(s, containerW, containerH, canvasW, canvasH)
}

func center(s, containerW, containerH, canvasW, canvasH float64) Placement {
	return Placement{
		Scale:   s,
		OffsetX: (containerW - canvasW*s) / 2,
		OffsetY: (containerH - canvasH*s) / 2,
	}
}

// Fitter tracks the scale for a resizable container. A resize reporting a
// zero dimension (hidden or not yet laid out) keeps the previous scale.
type Fitter struct {
	Padding float64
	CanvasW float64
	CanvasH float64

	mu    sync.Mutex
	scale float64
	w, h  float64
}

func NewFitter(padding float64) *Fitter {
	return &Fitter{
		Padding: padding,
		CanvasW: draw.CanvasWidth,
		CanvasH: draw.CanvasHeight,
		scale:   1,
	}
}

func (f *Fitter) Resize(w, h float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w == 0 || h == 0 {
		return f.scale
	}
	f.w, f.h = w, h
	f.scale = ComputeScale(w, h, f.Padding, f.CanvasW, f.CanvasH)
	return f.scale
}

func (f *Fitter) Scale() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scale
}

// Placement reports the current scale centered in the last non-zero container.
func (f *Fitter) Placement() Placement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return center(f.scale, f.w, f.h, f.CanvasW, f.CanvasH)
}
