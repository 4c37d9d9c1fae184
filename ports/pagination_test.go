package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name          string
		number, limit int
		wantNumber    int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"capped", 3, 500, 3, MaxPageLimit, 200},
		{"negative", -4, -1, 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.limit, 10)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestPageInfo(t *testing.T) {
	info := NewPage(1, 20, 20).Info(41)
	assert.Equal(t, 3, info.Pages)
	assert.Equal(t, 41, info.Total)
	assert.Equal(t, 0, NewPage(1, 20, 20).Info(0).Pages)
}
