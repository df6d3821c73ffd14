package schematic

import (
	"fmt"
	"strings"
)

// MarshalClipboard renders the document as clipboard text: the header and
// the Components, Wires, Diagrams and Paintings sections. Symbol paintings
// are not copied.
func MarshalClipboard(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s>\n", headerPrefix, Supported)
	b.WriteString("<Components>\n")
	writeComponents(&b, doc.Components)
	b.WriteString("</Components>\n<Wires>\n")
	writeWires(&b, doc)
	b.WriteString("</Wires>\n<Diagrams>\n")
	writeDiagrams(&b, doc.Diagrams)
	b.WriteString("</Diagrams>\n<Paintings>\n")
	var ps []Painting
	for _, p := range doc.Paintings {
		if !strings.HasPrefix(p.Type, ".") {
			ps = append(ps, p)
		}
	}
	writePaintings(&b, ps)
	b.WriteString("</Paintings>\n")
	return b.String()
}

// MarshalUndo renders an undo snapshot: the operation character followed by
// components, wires, diagrams and paintings, each block closed by "</>".
func MarshalUndo(doc *Document, op byte) string {
	var b strings.Builder
	b.WriteByte(op)
	b.WriteByte('\n')
	writeComponents(&b, doc.Components)
	b.WriteString("</>\n")
	writeWires(&b, doc)
	b.WriteString("</>\n")
	writeDiagrams(&b, doc.Diagrams)
	b.WriteString("</>\n")
	writePaintings(&b, doc.Paintings)
	b.WriteString("</>\n")
	return b.String()
}

// ParseUndo rebuilds a document from an undo snapshot and returns the
// operation character it was recorded with.
func (p *Parser) ParseUndo(s string) (*Document, byte, error) {
	lr := newLineReader(strings.NewReader(s))
	line, ok := lr.next()
	if !ok {
		return nil, 0, ErrEmptyFile
	}
	if len(line) != 1 {
		return nil, 0, formatErr(lr.n, line, "undo operation expected")
	}
	doc := &Document{Version: Supported}
	if err := p.loadComponents(lr, doc); err != nil {
		return nil, 0, err
	}
	if err := p.loadWires(lr, doc); err != nil {
		return nil, 0, err
	}
	if err := p.loadDiagrams(lr, doc); err != nil {
		return nil, 0, err
	}
	var err error
	if doc.Paintings, err = p.loadPaintings(lr, SectionPaintings); err != nil {
		return nil, 0, err
	}
	AttachPorts(doc, nil)
	return doc, line[0], nil
}
