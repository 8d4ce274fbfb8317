package diagram

import "github.com/lucasb-eyer/go-colorful"

// ContrastingText returns black or white, whichever reads better over c used
// as a background fill, judged by Lab lightness.
func (c RGB) ContrastingText() RGB {
	f := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	if l, _, _ := f.Lab(); l > 0.5 {
		return RGB{}
	}
	return RGB{R: 255, G: 255, B: 255}
}
