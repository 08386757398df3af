package utils

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TokenReader reads whitespace separated values from a text stream, tracking
// the line each value came from so that format errors can point at it.
// Records may span lines or share a line, the stream is treated as one
// sequence of tokens.
type TokenReader struct {
	name    string
	scanner *bufio.Scanner
	line    int      // Line number of the most recently returned token
	read    int      // Lines consumed from the scanner
	queue   []string // Remaining tokens of the current line
}

// NewTokenReader wraps r. The name is used as the prefix of error positions,
// normally the file name.
func NewTokenReader(r io.Reader, name string) *TokenReader {
	scanner := bufio.NewScanner(r)
	// Increase scanner buffer for long lines
	const maxScanTokenSize = 1024 * 1024 * 10 // 10MB
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)
	return &TokenReader{
		name:    name,
		scanner: scanner,
	}
}

// Pos returns "name:line" for the most recently returned token.
func (tr *TokenReader) Pos() string {
	return fmt.Sprintf("%s:%d", tr.name, tr.line)
}

// Next returns the next token. At the end of the stream it returns an error
// wrapping io.ErrUnexpectedEOF, since every caller knows how many values it
// still expects.
func (tr *TokenReader) Next() (string, error) {
	for len(tr.queue) == 0 {
		if !tr.scanner.Scan() {
			if err := tr.scanner.Err(); err != nil {
				return "", fmt.Errorf("%s:%d: %w", tr.name, tr.read, err)
			}
			return "", fmt.Errorf("%s:%d: %w", tr.name, tr.read, io.ErrUnexpectedEOF)
		}
		tr.read++
		tr.queue = strings.Fields(tr.scanner.Text())
	}
	tok := tr.queue[0]
	tr.queue = tr.queue[1:]
	tr.line = tr.read
	return tok, nil
}

// Int reads the next token as a base 10 integer.
func (tr *TokenReader) Int() (int, error) {
	tok, err := tr.Next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%s: expected integer, got %q", tr.Pos(), tok)
	}
	return v, nil
}

// Float reads the next token as a float64. Fortran style exponents (1.0D+02)
// are accepted as well.
func (tr *TokenReader) Float() (float64, error) {
	tok, err := tr.Next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		v, err = strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(tok), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: expected real number, got %q", tr.Pos(), tok)
		}
	}
	return v, nil
}

// Floats reads n consecutive float tokens.
func (tr *TokenReader) Floats(n int) ([]float64, error) {
	vals := make([]float64, n)
	for i := range vals {
		var err error
		if vals[i], err = tr.Float(); err != nil {
			return nil, err
		}
	}
	return vals, nil
}

// Ints reads n consecutive integer tokens.
func (tr *TokenReader) Ints(n int) ([]int, error) {
	vals := make([]int, n)
	for i := range vals {
		var err error
		if vals[i], err = tr.Int(); err != nil {
			return nil, err
		}
	}
	return vals, nil
}
