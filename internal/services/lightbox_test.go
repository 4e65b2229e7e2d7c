package services

import "testing"

func TestLightboxWraparound(t *testing.T) {
	index, open := NewLightbox(5).Open(4).Next().Index()
	if !open || index != 0 {
		t.Fatalf("expected next from 4 to wrap to 0, got %d (open=%v)", index, open)
	}

	index, _ = NewLightbox(5).Open(0).Previous().Index()
	if index != 4 {
		t.Fatalf("expected previous from 0 to wrap to 4, got %d", index)
	}
}

func TestLightboxClosedNavigationIsNoop(t *testing.T) {
	lightbox := NewLightbox(3)
	if lightbox.Next().IsOpen() || lightbox.Previous().IsOpen() {
		t.Fatal("expected navigation on a closed lightbox to keep it closed")
	}
	if lightbox.HandleKey(KeyArrowRight).IsOpen() {
		t.Fatal("expected keys to be ignored while closed")
	}
}

func TestLightboxKeyboard(t *testing.T) {
	lightbox := NewLightbox(3).Open(1)

	cases := []struct {
		key  string
		want int
	}{
		{KeyArrowRight, 2},
		{KeyArrowLeft, 0},
		{"Enter", 1},
	}
	for _, tc := range cases {
		index, open := lightbox.HandleKey(tc.key).Index()
		if !open || index != tc.want {
			t.Fatalf("%s: expected index %d, got %d (open=%v)", tc.key, tc.want, index, open)
		}
	}
	if lightbox.HandleKey(KeyEscape).IsOpen() {
		t.Fatal("expected Escape to close the lightbox")
	}
}

func TestLightboxClampsWhenListShrinks(t *testing.T) {
	lightbox := NewLightbox(10).Open(8).Resize(3)
	index, open := lightbox.Index()
	if !open || index != 2 {
		t.Fatalf("expected clamp to 2, got %d (open=%v)", index, open)
	}
	if lightbox.Len() != 3 {
		t.Fatalf("expected length 3, got %d", lightbox.Len())
	}

	if lightbox.Resize(0).IsOpen() {
		t.Fatal("expected empty list to close the lightbox")
	}
	if NewLightbox(0).Open(0).IsOpen() {
		t.Fatal("expected opening an empty list to stay closed")
	}
	if NewLightbox(3).Resize(1).IsOpen() {
		t.Fatal("expected resize to keep a closed lightbox closed")
	}

	index, _ = NewLightbox(4).Open(99).Index()
	if index != 3 {
		t.Fatalf("expected open to clamp to 3, got %d", index)
	}
}

func TestParseLightboxIndex(t *testing.T) {
	index, ok := ParseLightboxIndex(" 3 ")
	if !ok || index != 3 {
		t.Fatalf("expected 3, got %d (ok=%v)", index, ok)
	}

	for _, raw := range []string{"", "-1", "abc"} {
		if _, ok := ParseLightboxIndex(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
