package machine

import "testing"

func TestStackPushPopTop(t *testing.T) {
	var s stack[int]
	if _, ok := s.pop(); ok {
		t.Fatal("pop of empty stack reported ok")
	}
	if _, ok := s.top(); ok {
		t.Fatal("top of empty stack reported ok")
	}

	s.push(1)
	s.push(2)
	s.push(3)
	if s.len() != 3 {
		t.Fatalf("len() = %d, want 3", s.len())
	}

	top, ok := s.top()
	if !ok || top != 3 {
		t.Fatalf("top() = (%d, %v), want (3, true)", top, ok)
	}

	for _, want := range []int{3, 2, 1} {
		got, ok := s.pop()
		if !ok || got != want {
			t.Fatalf("pop() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if s.len() != 0 {
		t.Fatalf("len() = %d, want 0 after draining", s.len())
	}
}
