package schematic

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// CountSubcircuitPorts returns the number of Port components of a
// schematic file. Only the header and the Components section are read.
func CountSubcircuitPorts(filename string) (int, error) {
	return NewParser().CountSubcircuitPorts(filename)
}

// CountSubcircuitPorts opens filename and counts its Port components.
func (p *Parser) CountSubcircuitPorts(filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return -1, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return p.CountPorts(f)
}

// CountPorts counts the Port components in a schematic stream.
func (p *Parser) CountPorts(r io.Reader) (int, error) {
	lr := newLineReader(r)
	line, ok := lr.next()
	if !ok {
		if err := lr.err(); err != nil {
			return -1, err
		}
		return -1, ErrEmptyFile
	}
	if _, err := p.header(line, lr.n); err != nil {
		return -1, err
	}

	for {
		line, ok = lr.next()
		if !ok {
			if err := lr.err(); err != nil {
				return -1, err
			}
			// no Components section at all
			return 0, nil
		}
		if line == "<"+SectionComponents+">" {
			break
		}
	}

	count := 0
	for {
		line, ok = lr.next()
		if !ok {
			if err := lr.err(); err != nil {
				return -1, err
			}
			return -1, formatErr(lr.n, "", "section <%s> is not closed", SectionComponents)
		}
		if strings.HasPrefix(line, "</") {
			return count, nil
		}
		if strings.HasPrefix(line, "<Port ") {
			count++
		}
	}
}
