package geom2d

import "testing"

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 1, Y: 2}
	q := Point{X: 3, Y: -1}

	if got := p.Add(q); got != (Point{X: 4, Y: 1}) {
		t.Errorf("Add = %v, want {4 1}", got)
	}
	if got := p.Sub(q); got != (Point{X: -2, Y: 3}) {
		t.Errorf("Sub = %v, want {-2 3}", got)
	}
	if got := p.Scale(2); got != (Point{X: 2, Y: 4}) {
		t.Errorf("Scale = %v, want {2 4}", got)
	}
}

func TestDistance(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 3, Y: 4}
	if got := p.Distance(q); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestNudgeMovesByTinyMove(t *testing.T) {
	p := Point{X: 0, Y: 0}
	n := p.Nudge(0)
	if n.Distance(p) <= 0 || n.Distance(p) > 2*TinyMove {
		t.Errorf("Nudge moved by %v, want roughly TinyMove=%v", n.Distance(p), TinyMove)
	}
}

func TestMoveAlong(t *testing.T) {
	p := Point{X: 0, Y: 0}
	got := p.MoveAlong(0, 5)
	want := Point{X: 5, Y: 0}
	if diff := got.Distance(want); diff > 1e-9 {
		t.Errorf("MoveAlong(0,5) = %v, want %v", got, want)
	}
}
