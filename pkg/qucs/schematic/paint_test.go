package schematic

import "testing"

func TestSymbolAccessors(t *testing.T) {
	doc, err := ParseFile("testdata/rc.sch")
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	ports := doc.PortSymbols()
	if len(ports) != 2 {
		t.Fatalf("Expected 2 port symbols, got %d", len(ports))
	}
	if ports[0].Number != 1 || ports[0].Pos != (Point{-30, 0}) {
		t.Errorf("Unexpected first port symbol %+v", ports[0])
	}
	if ports[1].Number != 2 || ports[1].Pos != (Point{30, 0}) {
		t.Errorf("Unexpected second port symbol %+v", ports[1])
	}

	params := doc.Parameters()
	if len(params) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(params))
	}
	want := SubParameter{Display: true, Name: "Rval", Default: "1 kOhm", Description: "series resistance"}
	if params[0] != want {
		t.Errorf("Expected %+v, got %+v", want, params[0])
	}
}

func TestPaintingAccessorsRejectOtherTypes(t *testing.T) {
	p := Painting{Type: "Line", Raw: "Line 0 0 10 10 #000000 0 1"}
	if _, ok := p.PortSymbol(); ok {
		t.Errorf("Line is not a port symbol")
	}
	if _, ok := p.IDText(); ok {
		t.Errorf("Line is not an ID text")
	}

	bad := Painting{Type: ".PortSym", Raw: ".PortSym a b c"}
	if _, ok := bad.PortSymbol(); ok {
		t.Errorf("Expected malformed port symbol to be rejected")
	}
}
