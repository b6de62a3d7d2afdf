package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a crop rectangle in ffmpeg crop-filter order: width, height,
// x offset, y offset.
type Rect struct {
	Width  int
	Height int
	X      int
	Y      int
}

// ParseRect parses ffmpeg W:H:X:Y notation into a Rect.
func ParseRect(value string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("crop rectangle %q: want W:H:X:Y", value)
	}
	fields := make([]int, 4)
	for i, part := range parts {
		parsed, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Rect{}, fmt.Errorf("crop rectangle %q: field %q is not an integer", value, part)
		}
		fields[i] = parsed
	}
	rect := Rect{Width: fields[0], Height: fields[1], X: fields[2], Y: fields[3]}
	if rect.Width <= 0 || rect.Height <= 0 || rect.X < 0 || rect.Y < 0 {
		return Rect{}, fmt.Errorf("crop rectangle %q: width/height must be positive, offsets non-negative", value)
	}
	return rect, nil
}

// String renders the rectangle back into ffmpeg W:H:X:Y notation.
func (r Rect) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.Width, r.Height, r.X, r.Y)
}

// FitsWithin reports whether the rectangle lies inside a frame of the
// given dimensions.
func (r Rect) FitsWithin(frameWidth, frameHeight int) bool {
	return r.X+r.Width <= frameWidth && r.Y+r.Height <= frameHeight
}

// CamRect returns the parsed camera crop rectangle. Validate has already
// checked it parses.
func (c *Config) CamRect() (Rect, error) {
	return ParseRect(c.Crops.Cam)
}

// ScreenRect returns the parsed screen crop rectangle.
func (c *Config) ScreenRect() (Rect, error) {
	return ParseRect(c.Crops.Screen)
}
