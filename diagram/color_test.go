package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContrastingText(t *testing.T) {
	black := RGB{}
	white := RGB{R: 255, G: 255, B: 255}

	tests := []struct {
		name string
		fill RGB
		want RGB
	}{
		{"white fill", white, black},
		{"black fill", black, white},
		{"dark blue fill", RGB{B: 255}, white},
		{"yellow fill", RGB{R: 255, G: 255}, black},
		{"neutral gray fill", RGB{R: 128, G: 128, B: 128}, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fill.ContrastingText())
		})
	}
}
