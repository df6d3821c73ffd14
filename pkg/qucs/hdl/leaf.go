// Package hdl reads the foreign leaf files a schematic can reference:
// VHDL entities, Verilog modules and SPICE netlists.
//
// VHDL and Verilog files are inlined verbatim into digital netlists; only
// their interface (entity or module header) is parsed, to learn the port
// order, port types and generics. SPICE netlists are converted into Qucs
// sub-circuit definitions for analog netlists.
package hdl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Leaf is the interface and netlist text of one foreign file.
type Leaf struct {
	Name      string   // entity, module or sub-circuit type name
	Ports     []string // in declaration order
	PortTypes []string // VHDL port types, parallel to Ports
	Generics  []Generic
	Text      string // block to inline into the netlist
}

// Generic is a VHDL generic or Verilog parameter.
type Generic struct {
	Name    string
	Type    string
	Default string
}

// tokens lexes src completely, dropping comments and whitespace.
func tokens(def *lexer.StatefulDefinition, src string) ([]lexer.Token, error) {
	lex, err := def.LexString("", src)
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	syms := def.Symbols()
	skip := map[lexer.TokenType]bool{
		syms["Comment"]:    true,
		syms["Whitespace"]: true,
		lexer.EOF:          true,
	}
	out := all[:0]
	for _, t := range all {
		if !skip[t.Type] {
			out = append(out, t)
		}
	}
	return out, nil
}

// span returns the source text from token start up to and including the
// first token of type end with value val found outside parentheses.
func span(src string, toks []lexer.Token, start int, end lexer.TokenType, open, close, val string) (string, bool) {
	depth := 0
	for i := start; i < len(toks); i++ {
		switch toks[i].Value {
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 && toks[i].Type == end && toks[i].Value == val {
			from := toks[start].Pos.Offset
			to := toks[i].Pos.Offset + len(toks[i].Value)
			return src[from:to], true
		}
	}
	return "", false
}

func joinTokens(parts []string) string {
	return strings.Join(parts, " ")
}

func parseErr(lang string, err error) error {
	return fmt.Errorf("%s: parse error: %w", lang, err)
}
