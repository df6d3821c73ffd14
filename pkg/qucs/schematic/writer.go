package schematic

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	defaultView = "0,0,800,800,1,0,0"
	defaultGrid = "10,10,1"
)

// Serialize renders the document in the schematic text format.
func Serialize(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s>\n", headerPrefix, Supported)
	writeSettings(&b, &doc.Settings)

	b.WriteString("<Symbol>\n")
	writePaintings(&b, doc.Symbol)
	b.WriteString("</Symbol>\n")

	b.WriteString("<Components>\n")
	writeComponents(&b, doc.Components)
	b.WriteString("</Components>\n")

	b.WriteString("<Wires>\n")
	writeWires(&b, doc)
	b.WriteString("</Wires>\n")

	b.WriteString("<Diagrams>\n")
	writeDiagrams(&b, doc.Diagrams)
	b.WriteString("</Diagrams>\n")

	b.WriteString("<Paintings>\n")
	writePaintings(&b, doc.Paintings)
	b.WriteString("</Paintings>\n")
	return b.String()
}

// Write serializes the document to w.
func Write(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, Serialize(doc))
	return err
}

// WriteFile serializes the document to a file.
func WriteFile(doc *Document, filename string) error {
	if err := os.WriteFile(filename, []byte(Serialize(doc)), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func writeSettings(b *strings.Builder, s *Settings) {
	view, grid := s.View, s.Grid
	if view == "" {
		view = defaultView
	}
	if grid == "" {
		grid = defaultGrid
	}
	b.WriteString("<Properties>\n")
	fmt.Fprintf(b, "  <View=%s>\n", view)
	fmt.Fprintf(b, "  <Grid=%s>\n", grid)
	fmt.Fprintf(b, "  <DataSet=%s>\n", s.DataSet)
	fmt.Fprintf(b, "  <DataDisplay=%s>\n", s.DataDisplay)
	fmt.Fprintf(b, "  <OpenDisplay=%d>\n", boolInt(s.OpenDisplay))
	fmt.Fprintf(b, "  <Script=%s>\n", s.Script)
	fmt.Fprintf(b, "  <RunScript=%d>\n", boolInt(s.RunScript))
	fmt.Fprintf(b, "  <showFrame=%d>\n", s.ShowFrame)
	for i, t := range s.FrameText {
		fmt.Fprintf(b, "  <FrameText%d=%s>\n", i, t)
	}
	b.WriteString("</Properties>\n")
}

func writeComponents(b *strings.Builder, comps []*Component) {
	for _, c := range comps {
		b.WriteString("  ")
		b.WriteString(ComponentRecord(c))
		b.WriteByte('\n')
	}
}

// ComponentRecord renders one component line.
func ComponentRecord(c *Component) string {
	name := c.Name
	if name == "" {
		name = "*"
	}
	flags := int(c.State)
	if !c.ShowName {
		flags |= 4
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<%s %s %d %d %d %d %d %d %d",
		c.Type, name, flags, c.Pos.X, c.Pos.Y, c.Text.X, c.Text.Y,
		boolInt(c.Mirrored), c.Rotation)
	for _, p := range c.Props {
		v := p.Value
		if p.Named {
			v = p.Name + "=" + p.Value
		}
		fmt.Fprintf(&b, " \"%s\" %d", v, boolInt(p.Display))
	}
	b.WriteByte('>')
	return b.String()
}

func writeWires(b *strings.Builder, doc *Document) {
	for _, w := range doc.Wires {
		b.WriteString("  ")
		b.WriteString(wireRecord(w.P1, w.P2, w.Label))
		b.WriteByte('\n')
	}
	for _, n := range doc.Nodes {
		if n.Label == nil {
			continue
		}
		b.WriteString("  ")
		b.WriteString(wireRecord(n.Pos, n.Pos, n.Label))
		b.WriteByte('\n')
	}
}

func wireRecord(p1, p2 Point, l *Label) string {
	if l == nil {
		return fmt.Sprintf("<%d %d %d %d \"\" 0 0 0 \"\">", p1.X, p1.Y, p2.X, p2.Y)
	}
	return fmt.Sprintf("<%d %d %d %d \"%s\" %d %d %d \"%s\">",
		p1.X, p1.Y, p2.X, p2.Y, l.Name, l.Pos.X, l.Pos.Y, l.Delta, l.InitValue)
}

func writeDiagrams(b *strings.Builder, ds []Diagram) {
	for _, d := range ds {
		fmt.Fprintf(b, "  <%s>\n", d.Header)
		for _, l := range d.Body {
			fmt.Fprintf(b, "\t%s\n", l)
		}
		fmt.Fprintf(b, "  </%s>\n", d.Type)
	}
}

func writePaintings(b *strings.Builder, ps []Painting) {
	for _, p := range ps {
		fmt.Fprintf(b, "  <%s>\n", p.Raw)
	}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
