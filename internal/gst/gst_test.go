package gst_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicer/internal/gst"
)

func TestResolveStateCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact", "Punjab", "03"},
		{"lowercase", "maharashtra", "27"},
		{"uppercase with spaces", "  TAMIL NADU ", "33"},
		{"leading zero code", "Jammu and Kashmir", "01"},
		{"union territory", "Dadra and Nagar Haveli and Daman and Diu", "26"},
		{"unknown", "Unknownland", gst.UnknownStateCode},
		{"empty", "", gst.UnknownStateCode},
		{"whitespace only", "   ", gst.UnknownStateCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gst.ResolveStateCode(tt.input))
		})
	}
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "Punjab", gst.StateName("03"))
	assert.Equal(t, "", gst.StateName("00"))
	assert.Len(t, gst.States(), 36)
}

func TestIsIntrastate_SameStateForEveryEntry(t *testing.T) {
	for _, s := range gst.States() {
		assert.True(t, gst.IsIntrastate(s, s), s)
		assert.True(t, gst.IsIntrastate(s, strings.ToUpper(s)), s)
		assert.False(t, gst.IsIntrastate(s, "Unknownland"), s)
	}
}

func TestIsIntrastate(t *testing.T) {
	tests := []struct {
		name   string
		seller string
		buyer  string
		want   bool
	}{
		{"different states", "Punjab", "Maharashtra", false},
		{"missing buyer", "Punjab", "", false},
		{"missing seller", "", "Punjab", false},
		{"both unknown and equal", "Atlantis", "Atlantis", false},
		{"case-insensitive match", "Punjab", " punjab", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gst.IsIntrastate(tt.seller, tt.buyer))
		})
	}
}

func TestSplit(t *testing.T) {
	t.Run("intrastate halves", func(t *testing.T) {
		b := gst.Split(457.63, true)
		assert.Equal(t, 457.63/2, b.CGST)
		assert.Equal(t, 457.63/2, b.SGST)
		assert.Zero(t, b.IGST)
		assert.InDelta(t, 457.63, b.Total(), 1e-9)
	})

	t.Run("interstate is all IGST", func(t *testing.T) {
		b := gst.Split(104.29, false)
		assert.Zero(t, b.CGST)
		assert.Zero(t, b.SGST)
		assert.Equal(t, 104.29, b.IGST)
	})

	t.Run("zero tax", func(t *testing.T) {
		assert.Equal(t, gst.Breakdown{}, gst.Split(0, true))
		assert.Equal(t, gst.Breakdown{}, gst.Split(0, false))
	})
}

func TestRegimeFor(t *testing.T) {
	assert.Equal(t, gst.RegimeIntrastate, gst.RegimeFor(true))
	assert.Equal(t, gst.RegimeInterstate, gst.RegimeFor(false))
}
