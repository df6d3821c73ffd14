package hdl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoModule is returned when a Verilog file declares no module.
var ErrNoModule = errors.New("verilog: no module declaration found")

// VerilogLexer tokenizes Verilog source well enough to locate and parse
// module headers.
var VerilogLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Directive", Pattern: "`[a-zA-Z_]+[^\n]*"},

	{Name: "KwModule", Pattern: `\b(?:module|macromodule)\b`},
	{Name: "KwInput", Pattern: `\binput\b`},
	{Name: "KwOutput", Pattern: `\boutput\b`},
	{Name: "KwInout", Pattern: `\binout\b`},
	{Name: "KwParameter", Pattern: `\bparameter\b`},
	{Name: "KwNet", Pattern: `\b(?:wire|reg|logic|tri|signed|unsigned|integer|real|time)\b`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[0-9]*'[sS]?[bBoOdDhH][0-9a-fA-FxXzZ_?]+|[0-9][0-9_]*(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_$]*`},
	{Name: "Punct", Pattern: `[#()\[\]:;,=]`},
	{Name: "Other", Pattern: `.`},
})

type verilogModule struct {
	Name   string          `KwModule @Ident`
	Params []*verilogParam `( "#" "(" @@ ( "," @@ )* ")" )?`
	Ports  []*verilogPort  `( "(" ( @@ ( "," @@ )* )? ")" )? ";"`
}

type verilogParam struct {
	Name    string       `KwParameter? KwNet* @Ident`
	Default *verilogExpr `( "=" @@ )?`
}

type verilogPort struct {
	Dir   string       `@( KwInput | KwOutput | KwInout )?`
	Net   []string     `@KwNet*`
	Range *verilogExpr `( "[" @@ "]" )?`
	Name  string       `@Ident`
}

type verilogExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Tokens []string `@( Number | Ident | String | Other | ":" )+`
}

func (e *verilogExpr) text(src string) string {
	if e == nil {
		return ""
	}
	if e.Pos.Offset < e.EndPos.Offset && e.EndPos.Offset <= len(src) {
		return strings.TrimSpace(src[e.Pos.Offset:e.EndPos.Offset])
	}
	return joinTokens(e.Tokens)
}

var verilogParser = participle.MustBuild[verilogModule](
	participle.Lexer(VerilogLexer),
	participle.Elide("Comment", "Whitespace", "Directive"),
	participle.UseLookahead(2),
)

// ParseVerilog returns the interface of the first module declared in src.
// Both ANSI and plain port lists are accepted; only port order matters for
// instantiation. The whole of src becomes the leaf text.
func ParseVerilog(src string) (*Leaf, error) {
	toks, err := tokens(VerilogLexer, src)
	if err != nil {
		return nil, parseErr("verilog", err)
	}
	syms := VerilogLexer.Symbols()
	start := -1
	for i, t := range toks {
		if t.Type == syms["KwModule"] {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoModule
	}
	header, ok := span(src, toks, start, syms["Punct"], "(", ")", ";")
	if !ok {
		return nil, fmt.Errorf("verilog: module header is not terminated")
	}

	mod, err := verilogParser.ParseString("", header)
	if err != nil {
		return nil, parseErr("verilog", err)
	}
	leaf := &Leaf{Name: mod.Name, Text: src}
	for _, p := range mod.Params {
		leaf.Generics = append(leaf.Generics, Generic{Name: p.Name, Default: p.Default.text(header)})
	}
	for _, p := range mod.Ports {
		leaf.Ports = append(leaf.Ports, p.Name)
	}
	return leaf, nil
}
