package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestTransformRoundTrip(t *testing.T) {
	pans := []Point{{0, 0}, {13.5, -7.25}, {-1200, 640}}
	points := []Point{{0, 0}, {100, 100}, {-33.3, 812.9}, {1e5, -1e5}}
	for z := MinZoom; z <= MaxZoom; z += 0.15 {
		for _, pan := range pans {
			for _, p := range points {
				back := ScreenToWorld(WorldToScreen(p, pan, z), pan, z)
				assert.True(t, back.Eq(p, 1e-6), "zoom=%v pan=%v p=%v got %v", z, pan, p, back)
			}
		}
	}
}

func TestRectTransform(t *testing.T) {
	r := R(100, 100, 140, 90)
	s := RectToScreen(r, Pt(10, 20), 2)
	assert.True(t, s.Eq(R(210, 220, 280, 180), eps), "got %v", s)
	assert.True(t, RectToWorld(s, Pt(10, 20), 2).Eq(r, eps))
}

func TestZoomAtKeepsCursorAnchor(t *testing.T) {
	tests := []struct {
		name   string
		start  Viewport
		cursor Point
		zoom   float64
	}{
		{"identity in", Identity(), Pt(170, 145), 1.1},
		{"panned out", Viewport{Pan: Pt(-40, 12), Zoom: 1.5}, Pt(3, 900), 0.5},
		{"clamped high", Viewport{Pan: Pt(7, 7), Zoom: 3.9}, Pt(50, 60), 99},
		{"clamped low", Viewport{Pan: Pt(7, 7), Zoom: 0.3}, Pt(50, 60), 0.0001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.start.ToWorld(tt.cursor)
			v := tt.start.ZoomAt(tt.cursor, tt.zoom)
			after := v.ToWorld(tt.cursor)
			assert.True(t, before.Eq(after, 1e-9), "before %v after %v", before, after)
			assert.GreaterOrEqual(t, v.Zoom, MinZoom)
			assert.LessOrEqual(t, v.Zoom, MaxZoom)
		})
	}
}

func TestZoomStepsIsGeometric(t *testing.T) {
	v := Identity().ZoomSteps(Pt(0, 0), 1.1, 2)
	assert.InDelta(t, 1.21, v.Zoom, eps)
	v = v.ZoomSteps(Pt(0, 0), 1.1, -2)
	assert.InDelta(t, 1.0, v.Zoom, eps)
}

func TestDistToSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	assert.InDelta(t, 5.0, DistToSegment(Pt(5, 5), a, b), eps)
	assert.InDelta(t, 5.0, DistToSegment(Pt(-3, 4), a, b), eps)
	assert.InDelta(t, 5.0, DistToSegment(Pt(13, 4), a, b), eps)
	assert.InDelta(t, 5.0, DistToSegment(Pt(3, 4), a, a), eps)
}

func TestRectContainsAndClamp(t *testing.T) {
	r := R(10, 10, 20, 20)
	assert.True(t, r.Contains(Pt(10, 10)))
	assert.False(t, r.Contains(Pt(30, 10)))

	c := R(0, 0, 100, 50)
	got := R(90, -5, 20, 20).KeepInside(c, R(0, 0, 20, 20))
	assert.True(t, got.Eq(R(80, 0, 20, 20), eps), "got %v", got)

	// Taller than c: y comes from pinned and the size is kept.
	got = R(-10, 7, 30, 80).KeepInside(c, R(5, -12, 30, 80))
	assert.True(t, got.Eq(R(0, -12, 30, 80), eps), "got %v", got)
}

func TestPixelsRounds(t *testing.T) {
	p := R(10.4, 10.6, 20.5, 19.4).Pixels()
	assert.Equal(t, 10, p.Min.X)
	assert.Equal(t, 11, p.Min.Y)
	assert.Equal(t, 31, p.Max.X)
	assert.Equal(t, 30, p.Max.Y)
}

func TestBorderPoint(t *testing.T) {
	r := R(0, 0, 100, 50)
	assert.True(t, r.BorderPoint(Pt(250, 25)).Eq(Pt(100, 25), eps))
	assert.True(t, r.BorderPoint(Pt(50, -100)).Eq(Pt(50, 0), eps))
	assert.True(t, r.BorderPoint(Pt(60, 30)).Eq(Pt(60, 30), eps))
}
