package services

import (
	"strconv"
	"strings"
)

const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEscape     = "Escape"
)

// Lightbox tracks the open position inside the filtered image list.
type Lightbox struct {
	index  int
	open   bool
	length int
}

func NewLightbox(length int) Lightbox {
	if length < 0 {
		length = 0
	}
	return Lightbox{length: length}
}

// Open selects index, clamped into the list. An empty list stays closed.
func (lightbox Lightbox) Open(index int) Lightbox {
	if lightbox.length == 0 {
		return lightbox.Close()
	}
	lightbox.index = clampIndex(index, lightbox.length)
	lightbox.open = true
	return lightbox
}

func (lightbox Lightbox) Close() Lightbox {
	lightbox.index = 0
	lightbox.open = false
	return lightbox
}

func (lightbox Lightbox) Index() (int, bool) {
	if !lightbox.open {
		return 0, false
	}
	return lightbox.index, true
}

func (lightbox Lightbox) IsOpen() bool {
	return lightbox.open
}

func (lightbox Lightbox) Len() int {
	return lightbox.length
}

func (lightbox Lightbox) Next() Lightbox {
	if !lightbox.open {
		return lightbox
	}
	lightbox.index = (lightbox.index + 1) % lightbox.length
	return lightbox
}

func (lightbox Lightbox) Previous() Lightbox {
	if !lightbox.open {
		return lightbox
	}
	lightbox.index = (lightbox.index - 1 + lightbox.length) % lightbox.length
	return lightbox
}

// Resize rebinds the lightbox to a list of a new length, clamping the
// open index and closing it when the list becomes empty.
func (lightbox Lightbox) Resize(length int) Lightbox {
	if length < 0 {
		length = 0
	}
	lightbox.length = length
	if !lightbox.open {
		return lightbox
	}
	if length == 0 {
		return lightbox.Close()
	}
	lightbox.index = clampIndex(lightbox.index, length)
	return lightbox
}

// HandleKey applies the keyboard bindings. Keys are ignored while closed.
func (lightbox Lightbox) HandleKey(key string) Lightbox {
	if !lightbox.open {
		return lightbox
	}
	switch key {
	case KeyArrowRight:
		return lightbox.Next()
	case KeyArrowLeft:
		return lightbox.Previous()
	case KeyEscape:
		return lightbox.Close()
	default:
		return lightbox
	}
}

// ParseLightboxIndex reads a non-negative index from the query string.
func ParseLightboxIndex(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func clampIndex(index int, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
