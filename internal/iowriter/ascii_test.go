package iowriter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloserBuffer struct {
	*bytes.Buffer
}

func (nopCloserBuffer) Close() error { return nil }

func TestASCIIWriterGating(t *testing.T) {
	w := NewASCIIWriter(10, 5, 0, func(int) (io.WriteCloser, error) {
		return nopCloserBuffer{&bytes.Buffer{}}, nil
	})

	assert.True(t, w.GetIsWritten(0))
	assert.True(t, w.GetIsWritten(10))
	assert.False(t, w.GetIsWritten(3))
	assert.True(t, w.GetIsAnalyzed(5))
	assert.False(t, w.GetIsBackedUp(0))
}

func TestASCIIWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewASCIIWriter(1, 1, 1, func(int) (io.WriteCloser, error) {
		return nopCloserBuffer{&buf}, nil
	})

	require.NoError(t, w.OpenFile(7))
	require.NoError(t, w.WriteField("density", []float64{1, 2, 3}))
	require.NoError(t, w.WriteDistribution([]float64{0.1, 0.2}))
	require.NoError(t, w.CloseFile())

	out := buf.String()
	assert.True(t, strings.Contains(out, "field,density,7"))
	assert.True(t, strings.Contains(out, "distribution,7"))
}

func TestASCIIWriterRejectsWriteWithoutOpen(t *testing.T) {
	w := NewASCIIWriter(1, 1, 1, nil)
	err := w.WriteField("x", []float64{1})
	assert.Error(t, err)
}
