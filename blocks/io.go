package blocks

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/notargets/blockmod/utils"
)

// InputFileName is the block file read for iteration iter.
func InputFileName(iter int) string {
	return fmt.Sprintf("resistivity_block_iter%d.dat", iter)
}

// OutputFileName is the modified block file written for iteration iter.
func OutputFileName(iter int) string {
	return fmt.Sprintf("resistivity_block_iter%d.mod.dat", iter)
}

// BinaryFileName is the per element resistivity export for iteration iter.
func BinaryFileName(iter int) string {
	return fmt.Sprintf("ResistivityMod.iter%d", iter)
}

// Load reads InputFileName(iter) from dir.
func Load(dir string, iter int) (*Store, error) {
	return ReadFile(filepath.Join(dir, InputFileName(iter)))
}

// ReadFile reads a block file.
func ReadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file open error: %w", err)
	}
	defer file.Close()
	return Read(file, path)
}

// Read parses a block file:
//
//	numElements numBlocks
//	elementIndex blockIndex             (numElements records)
//	blockIndex value min max weight type (numBlocks records)
//
// Element and block indices must follow their record position.
func Read(r io.Reader, name string) (*Store, error) {
	tr := utils.NewTokenReader(r, name)

	numElements, err := tr.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	numBlocks, err := tr.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if numElements < 0 || numBlocks < 0 {
		return nil, fmt.Errorf("%w: %s: negative counts %d %d", ErrMalformed, tr.Pos(), numElements, numBlocks)
	}

	eToB := make([]int, numElements)
	for elem := range eToB {
		rec, err := tr.Ints(2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if rec[0] != elem {
			return nil, fmt.Errorf("%w: %s: element index %d is wrong, expected %d",
				ErrMalformed, tr.Pos(), rec[0], elem)
		}
		if rec[1] < 0 || rec[1] >= numBlocks {
			return nil, fmt.Errorf("%w: %s: resistivity block index %d of element %d is improper",
				ErrMalformed, tr.Pos(), rec[1], elem)
		}
		eToB[elem] = rec[1]
	}

	blocks := make([]Block, numBlocks)
	for blk := range blocks {
		idx, err := tr.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if idx != blk {
			return nil, fmt.Errorf("%w: %s: block index %d is wrong, expected %d",
				ErrMalformed, tr.Pos(), idx, blk)
		}
		vals, err := tr.Floats(4)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		code, err := tr.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !Type(code).Valid() {
			return nil, fmt.Errorf("%w: %s: type of resistivity block %d is unknown: %d",
				ErrMalformed, tr.Pos(), blk, code)
		}
		blocks[blk] = Block{
			Value:  vals[0],
			Min:    vals[1],
			Max:    vals[2],
			Weight: vals[3],
			Type:   Type(code),
		}
	}
	return New(eToB, blocks)
}

// WriteText writes the store in the block file layout read by Read.
func (s *Store) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%10d%10d\n", len(s.eToB), len(s.blocks))
	for elem, blk := range s.eToB {
		fmt.Fprintf(bw, "%10d%10d\n", elem, blk)
	}
	for blk, b := range s.blocks {
		fmt.Fprintf(bw, "%10d%5s%15e%15e%15e%15e%10d\n", blk, "     ",
			b.Value, b.Min, b.Max, b.Weight, int(b.Type))
	}
	return bw.Flush()
}

// WriteTextFile writes the store to path with WriteText.
func (s *Store) WriteTextFile(path string) error {
	return writeFile(path, s.WriteText)
}

// Binary export header fields
const (
	binaryFieldSize = 80
	binaryTitle     = "Resistivity[Ohm-m]"
	binaryPart      = "part"
	binaryPartID    = int32(1)
)

// WriteBinary writes the resistivity of every element, in element order, as a
// per element scalar variable file: three NUL padded 80 byte fields (title,
// "part", element type name) with the int32 part number between the second and
// third, then one float32 per element. Byte order is little endian.
func (s *Store) WriteBinary(w io.Writer, elementType string) error {
	bw := bufio.NewWriter(w)
	if err := writeField(bw, binaryTitle); err != nil {
		return err
	}
	if err := writeField(bw, binaryPart); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, binaryPartID); err != nil {
		return err
	}
	if err := writeField(bw, elementType); err != nil {
		return err
	}
	vals := make([]float32, len(s.eToB))
	for elem, blk := range s.eToB {
		vals[elem] = float32(s.blocks[blk].Value)
	}
	if err := binary.Write(bw, binary.LittleEndian, vals); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteBinaryFile writes the store to path with WriteBinary.
func (s *Store) WriteBinaryFile(path, elementType string) error {
	return writeFile(path, func(w io.Writer) error {
		return s.WriteBinary(w, elementType)
	})
}

func writeField(w io.Writer, text string) error {
	if len(text) >= binaryFieldSize {
		return fmt.Errorf("header field %q longer than %d bytes", text, binaryFieldSize-1)
	}
	var field [binaryFieldSize]byte
	copy(field[:], text)
	_, err := w.Write(field[:])
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("file open error: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
