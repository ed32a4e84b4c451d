package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar_Finish(t *testing.T) {
	t.Run("complete run fills the bar", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressBar(2, &buf)
		p.Update(1, 1)
		p.Finish()

		assert.True(t, p.bar.IsFinished())
		assert.Equal(t, int64(2), p.bar.State().CurrentNum)
	})

	t.Run("stopped run keeps its count", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewProgressBar(4, &buf)
		p.Update(1, 0)
		p.Finish()

		assert.False(t, p.bar.IsFinished())
		assert.Equal(t, int64(1), p.bar.State().CurrentNum)
	})
}
