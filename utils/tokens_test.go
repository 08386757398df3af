package utils

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenReaderAcrossLines(t *testing.T) {
	tr := NewTokenReader(strings.NewReader("3 4\n\n  1.5e+02\t-2\n7 1.0D+01\n"), "in.dat")

	ints, err := tr.Ints(2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ints)
	assert.Equal(t, "in.dat:1", tr.Pos())

	f, err := tr.Float()
	require.NoError(t, err)
	assert.Equal(t, 150.0, f)
	assert.Equal(t, "in.dat:3", tr.Pos())

	i, err := tr.Int()
	require.NoError(t, err)
	assert.Equal(t, -2, i)

	fs, err := tr.Floats(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 10}, fs)
	assert.Equal(t, "in.dat:4", tr.Pos())

	_, err = tr.Next()
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}

func TestTokenReaderBadValues(t *testing.T) {
	tr := NewTokenReader(strings.NewReader("x\n1.5\nabc"), "p.txt")

	_, err := tr.Int()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `p.txt:1: expected integer, got "x"`)

	_, err = tr.Int()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p.txt:2")

	_, err = tr.Float()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected real number, got "abc"`)
}
