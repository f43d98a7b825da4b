package sky

import "testing"

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   Rect
	}{
		{
			name:   "no chrome",
			layout: Layout{Viewport: Size{W: 100, H: 50}, Padding: 2},
			want:   Rect{MinX: 2, MaxX: 98, MinY: 2, MaxY: 48},
		},
		{
			name: "input bar cuts the bottom",
			layout: Layout{
				Viewport: Size{W: 100, H: 50},
				Chrome:   Rect{MinX: 0, MaxX: 100, MinY: 40, MaxY: 50},
				Padding:  2,
			},
			want: Rect{MinX: 2, MaxX: 98, MinY: 2, MaxY: 38},
		},
		{
			name: "chrome taller than viewport collapses",
			layout: Layout{
				Viewport: Size{W: 100, H: 10},
				Chrome:   Rect{MinX: 0, MaxX: 100, MinY: 1, MaxY: 10},
				Padding:  2,
			},
			want: Rect{MinX: 2, MaxX: 98, MinY: 2, MaxY: 2},
		},
		{
			name:   "tiny viewport collapses both axes",
			layout: Layout{Viewport: Size{W: 3, H: 3}, Padding: 2},
			want:   Rect{MinX: 2, MaxX: 2, MinY: 2, MaxY: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBounds(tt.layout)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if got.Width() < 0 || got.Height() < 0 {
				t.Errorf("Expected non-negative spans, got %vx%v", got.Width(), got.Height())
			}
		})
	}
}

func TestRectOverlapsIsStrict(t *testing.T) {
	a := Rect{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}
	touching := Rect{MinX: 10, MaxX: 20, MinY: 0, MaxY: 10}
	crossing := Rect{MinX: 9, MaxX: 20, MinY: 9, MaxY: 20}

	if a.Overlaps(touching) {
		t.Error("Expected touching rects not to overlap")
	}
	if !a.Overlaps(crossing) {
		t.Error("Expected crossing rects to overlap")
	}
	if !a.Inflate(1).Overlaps(touching) {
		t.Error("Expected inflated rect to overlap its neighbour")
	}
}
