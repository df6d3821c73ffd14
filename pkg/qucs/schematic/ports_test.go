package schematic

import (
	"errors"
	"strings"
	"testing"
)

func TestCountSubcircuitPorts(t *testing.T) {
	n, err := CountSubcircuitPorts("testdata/rc.sch")
	if err != nil {
		t.Fatalf("CountSubcircuitPorts: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 ports, got %d", n)
	}

	n, err = CountSubcircuitPorts("testdata/divider.sch")
	if err != nil || n != 0 {
		t.Errorf("Expected 0 ports without error, got %d, %v", n, err)
	}

	if n, err := CountSubcircuitPorts("testdata/missing.sch"); err == nil || n != -1 {
		t.Errorf("Expected open failure, got %d, %v", n, err)
	}
}

func TestCountPortsErrors(t *testing.T) {
	p := NewParser()

	if _, err := p.CountPorts(strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Expected ErrEmptyFile, got %v", err)
	}

	var fe *FormatError
	if _, err := p.CountPorts(strings.NewReader("<Qucs Library 0.0.19>\n")); !errors.As(err, &fe) {
		t.Errorf("Expected FormatError for wrong type, got %v", err)
	}

	var ve *VersionError
	if _, err := p.CountPorts(strings.NewReader("<Qucs Schematic 9.0.0>\n")); !errors.As(err, &ve) {
		t.Errorf("Expected VersionError, got %v", err)
	}

	unclosed := header + "<Components>\n<Port P1 1 0 0 0 0 0 0 \"1\" 1 \"analog\" 0>\n"
	if n, err := p.CountPorts(strings.NewReader(unclosed)); !errors.As(err, &fe) || n != -1 {
		t.Errorf("Expected FormatError for unclosed section, got %d, %v", n, err)
	}
}
