package schematic

import (
	"reflect"
	"strings"
	"testing"
)

func TestUndoRoundTrip(t *testing.T) {
	doc, err := ParseFile("testdata/divider.sch")
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}
	BuildConnectivity(doc)

	text := MarshalUndo(doc, 'm')
	if !strings.HasPrefix(text, "m\n") {
		t.Errorf("Expected operation character first, got %q", text[:2])
	}
	if got := strings.Count(text, "</>\n"); got != 4 {
		t.Errorf("Expected 4 block terminators, got %d", got)
	}

	restored, op, err := NewParser().ParseUndo(text)
	if err != nil {
		t.Fatalf("Failed to parse undo text: %v", err)
	}
	if op != 'm' {
		t.Errorf("Expected op 'm', got %q", op)
	}
	BuildConnectivity(restored)

	c1, w1, n1 := snapshot(doc)
	c2, w2, n2 := snapshot(restored)
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(w1, w2) || !reflect.DeepEqual(n1, n2) {
		t.Errorf("Undo round trip changed the document")
	}
	if len(restored.Diagrams) != 1 || len(restored.Paintings) != 1 {
		t.Errorf("Expected diagrams and paintings to be restored")
	}
}

func TestParseUndoErrors(t *testing.T) {
	if _, _, err := NewParser().ParseUndo(""); err == nil {
		t.Errorf("Expected error for empty undo text")
	}
	if _, _, err := NewParser().ParseUndo("move\n</>\n"); err == nil {
		t.Errorf("Expected error for malformed operation line")
	}
	if _, _, err := NewParser().ParseUndo("m\n<GND * 1 0 0 0 0 0 0>\n"); err == nil {
		t.Errorf("Expected error for truncated undo text")
	}
}

func TestClipboard(t *testing.T) {
	doc, err := ParseFile("testdata/rc.sch")
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}
	doc.Paintings = append(doc.Paintings, Painting{Type: ".PortSym", Raw: ".PortSym 0 0 3 0"})
	text := MarshalClipboard(doc)

	if strings.Contains(text, "<Properties>") || strings.Contains(text, "<Symbol>") {
		t.Errorf("Clipboard text must not carry document properties or symbol")
	}
	if strings.Contains(text, ".PortSym") {
		t.Errorf("Clipboard text must not carry symbol paintings")
	}

	pasted, err := ParseString(text)
	if err != nil {
		t.Fatalf("Failed to parse clipboard text: %v", err)
	}
	if len(pasted.Components) != len(doc.Components) {
		t.Errorf("Expected %d components, got %d", len(doc.Components), len(pasted.Components))
	}
}
