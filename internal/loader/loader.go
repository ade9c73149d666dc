// Package loader reads the ASCII hex-image format consumed by the
// simulator's command-line driver into a mem32.Memory.
//
// The format is line-oriented: a line beginning with '@' introduces a
// hexadecimal byte address that subsequent data is written starting
// from; other lines are whitespace-separated 2-digit hex bytes,
// accumulated least-significant-byte-first into 32-bit words. Every
// fourth byte completes one word, written via WriteAligned, after
// which the current address advances by 4. Groups do not span lines: a
// trailing group of fewer than four bytes at the end of any data line
// is dropped.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rv32sim/rv32sim/internal/mem32"
)

// ErrSyntax indicates malformed image text: a bad hex digit or an '@'
// line with no address. This is a programmer/API-misuse error, fatal
// to the caller, not a guest fault.
var ErrSyntax = errors.New("loader: syntax error")

// Word is one decoded (address, instruction-or-data) pair, in the
// order it appears in the image.
type Word struct {
	Addr  uint32
	Value uint32
}

// LoadFile opens path and loads its contents into mem via LoadReader.
func LoadFile(path string, mem *mem32.Memory) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return LoadReader(fp, mem)
}

// LoadReader reads a hex image from r and writes its words into mem
// starting at address 0, or at the address set by the most recent '@'
// line.
func LoadReader(r io.Reader, mem *mem32.Memory) error {
	return parse(r, func(w Word) {
		mem.WriteAligned(w.Addr, w.Value)
	})
}

// Words parses a hex image from r and returns its words, in order,
// without writing them anywhere. Used by tooling that wants to
// disassemble an image without constructing a Memory, such as the
// command-line driver's "disasm" subcommand.
func Words(r io.Reader) ([]Word, error) {
	var out []Word
	if err := parse(r, func(w Word) { out = append(out, w) }); err != nil {
		return nil, err
	}
	return out, nil
}

// parse walks the hex-image format described in the package doc,
// invoking emit once per completed 32-bit word in address order.
func parse(r io.Reader, emit func(Word)) error {
	scanner := bufio.NewScanner(r)
	var addr uint32
	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			a, err := strconv.ParseUint(strings.TrimSpace(line[1:]), 16, 32)
			if err != nil {
				return fmt.Errorf("%w: bad address on line %d: %v", ErrSyntax, lineno, err)
			}
			addr = uint32(a)
			continue
		}
		// A partial group never survives past the line it started on: the
		// reference loader begins each data line with a fresh k/word, so a
		// trailing group of fewer than four bytes is dropped rather than
		// completed from the next line's bytes.
		var k int
		var word uint32
		for _, tok := range strings.Fields(line) {
			b, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return fmt.Errorf("%w: bad byte %q on line %d: %v", ErrSyntax, tok, lineno, err)
			}
			word |= uint32(b) << (uint32(k) * 8)
			k++
			if k == 4 {
				emit(Word{Addr: addr, Value: word})
				addr += 4
				word = 0
				k = 0
			}
		}
	}
	return scanner.Err()
}
