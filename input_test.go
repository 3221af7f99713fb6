package orrery

import "testing"

func TestHandlerRegistry(t *testing.T) {
	e := newTestEngine(t, nil)
	var order []int
	h1 := e.OnHover(func(HoverContext) { order = append(order, 1) })
	h2 := e.OnHover(func(HoverContext) { order = append(order, 2) })
	s1 := e.OnSelect(func(SelectContext) { order = append(order, 3) })

	e.fireHover(HoverContext{EntityID: "a"})
	e.fireSelect(SelectContext{EntityID: "a"})
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v", order)
	}

	h1.Remove()
	h1.Remove()
	if h1.Active() || !h2.Active() || !s1.Active() {
		t.Errorf("active: h1=%v h2=%v s1=%v", h1.Active(), h2.Active(), s1.Active())
	}
	order = order[:0]
	e.fireHover(HoverContext{})
	if len(order) != 1 || order[0] != 2 {
		t.Errorf("after remove = %v", order)
	}
}

func TestZeroCallbackHandle(t *testing.T) {
	var h CallbackHandle
	h.Remove()
	if h.Active() {
		t.Error("zero handle active")
	}
}

func TestRemoveHandler(t *testing.T) {
	s := []int{1, 2, 3}
	s = removeHandler(s, func(x int) bool { return x == 2 })
	if len(s) != 2 || s[0] != 1 || s[1] != 3 {
		t.Errorf("got %v", s)
	}
	s = removeHandler(s, func(x int) bool { return x == 9 })
	if len(s) != 2 {
		t.Errorf("no-match changed slice: %v", s)
	}
}
