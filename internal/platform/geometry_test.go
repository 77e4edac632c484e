package platform

import "testing"

func TestPlaceOnMonitor(t *testing.T) {
	left := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	big := Rect{X: 1920, Y: 0, Width: 3840, Height: 2160}
	small := Rect{X: 0, Y: 0, Width: 1280, Height: 720}

	tests := []struct {
		name     string
		win      Rect
		from, to Rect
		want     Rect
	}{
		{
			name: "same size keeps relative offset",
			win:  Rect{X: 100, Y: 50, Width: 800, Height: 600},
			from: left, to: right,
			want: Rect{X: 2020, Y: 50, Width: 800, Height: 600},
		},
		{
			name: "back again",
			win:  Rect{X: 2020, Y: 50, Width: 800, Height: 600},
			from: right, to: left,
			want: Rect{X: 100, Y: 50, Width: 800, Height: 600},
		},
		{
			name: "larger target scales the offset",
			win:  Rect{X: 960, Y: 540, Width: 400, Height: 300},
			from: left, to: big,
			want: Rect{X: 1920 + 1920, Y: 1080, Width: 400, Height: 300},
		},
		{
			name: "oversized window is shrunk to the target",
			win:  Rect{X: 0, Y: 0, Width: 1900, Height: 1000},
			from: left, to: small,
			want: Rect{X: 0, Y: 0, Width: 1280, Height: 720},
		},
		{
			name: "window near the far edge is clamped inside",
			win:  Rect{X: 1500, Y: 700, Width: 400, Height: 300},
			from: left, to: small,
			want: Rect{X: 880, Y: 420, Width: 400, Height: 300},
		},
	}

	for _, tt := range tests {
		got := PlaceOnMonitor(tt.win, tt.from, tt.to)
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
		if !tt.to.Contains(got) {
			t.Errorf("%s: %+v not inside target %+v", tt.name, got, tt.to)
		}
	}
}
