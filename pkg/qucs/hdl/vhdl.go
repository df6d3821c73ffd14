package hdl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNoEntity is returned when a VHDL file declares no entity.
var ErrNoEntity = errors.New("vhdl: no entity declaration found")

// VHDLLexer tokenizes VHDL source. Only entity headers are parsed; the rest
// of the file is lexed so the header can be located.
var VHDLLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},

	{Name: "KwEntity", Pattern: `(?i)\bentity\b`},
	{Name: "KwIs", Pattern: `(?i)\bis\b`},
	{Name: "KwEnd", Pattern: `(?i)\bend\b`},
	{Name: "KwGeneric", Pattern: `(?i)\bgeneric\b`},
	{Name: "KwPort", Pattern: `(?i)\bport\b`},
	{Name: "KwSignal", Pattern: `(?i)\bsignal\b`},
	{Name: "KwConstant", Pattern: `(?i)\bconstant\b`},
	{Name: "KwInout", Pattern: `(?i)\binout\b`},
	{Name: "KwIn", Pattern: `(?i)\bin\b`},
	{Name: "KwOut", Pattern: `(?i)\bout\b`},
	{Name: "KwBuffer", Pattern: `(?i)\bbuffer\b`},
	{Name: "KwLinkage", Pattern: `(?i)\blinkage\b`},
	{Name: "KwDownto", Pattern: `(?i)\bdownto\b`},
	{Name: "KwTo", Pattern: `(?i)\bto\b`},

	{Name: "Assign", Pattern: `:=`},
	{Name: "Arrow", Pattern: `=>|<=`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Char", Pattern: `'.'`},
	{Name: "Number", Pattern: `[0-9][0-9_]*(?:\.[0-9_]+)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
	{Name: "Op", Pattern: `[-+*/&|=<>'.]`},
	{Name: "Other", Pattern: `.`},
})

type vhdlEntity struct {
	Name    string      `KwEntity @Ident KwIs`
	Generic *vhdlClause `( KwGeneric @@ )?`
	Port    *vhdlClause `( KwPort @@ )?`
	EndName string      `KwEnd KwEntity? @Ident? Semicolon`
}

type vhdlClause struct {
	Items []*vhdlItem `LParen @@ ( Semicolon @@ )* RParen Semicolon`
}

type vhdlItem struct {
	Names   []string  `( KwSignal | KwConstant )? @Ident ( Comma @Ident )*`
	Mode    string    `Colon @( KwInout | KwIn | KwOut | KwBuffer | KwLinkage )?`
	Type    string    `@Ident`
	Range   *vhdlExpr `( LParen @@ RParen )?`
	Default *vhdlExpr `( Assign @@ )?`
}

type vhdlExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Tokens []string `@( Number | String | Char | Ident | Op | KwDownto | KwTo )+`
}

func (e *vhdlExpr) text(src string) string {
	if e == nil {
		return ""
	}
	if e.Pos.Offset < e.EndPos.Offset && e.EndPos.Offset <= len(src) {
		return strings.TrimSpace(src[e.Pos.Offset:e.EndPos.Offset])
	}
	return joinTokens(e.Tokens)
}

var vhdlParser = participle.MustBuild[vhdlEntity](
	participle.Lexer(VHDLLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// ParseVHDL returns the interface of the first entity declared in src. The
// whole of src becomes the leaf text.
func ParseVHDL(src string) (*Leaf, error) {
	header, err := vhdlHeader(src)
	if err != nil {
		return nil, err
	}
	ent, err := vhdlParser.ParseString("", header)
	if err != nil {
		return nil, parseErr("vhdl", err)
	}
	if ent.EndName != "" && !strings.EqualFold(ent.EndName, ent.Name) {
		return nil, fmt.Errorf("vhdl: entity %s closed by end %s", ent.Name, ent.EndName)
	}

	leaf := &Leaf{Name: ent.Name, Text: src}
	if ent.Generic != nil {
		for _, it := range ent.Generic.Items {
			for _, n := range it.Names {
				leaf.Generics = append(leaf.Generics, Generic{
					Name:    n,
					Type:    it.Type,
					Default: it.Default.text(header),
				})
			}
		}
	}
	if ent.Port != nil {
		for _, it := range ent.Port.Items {
			typ := it.Type
			if it.Range != nil {
				typ += "(" + it.Range.text(header) + ")"
			}
			for _, n := range it.Names {
				leaf.Ports = append(leaf.Ports, n)
				leaf.PortTypes = append(leaf.PortTypes, typ)
			}
		}
	}
	return leaf, nil
}

// vhdlHeader cuts the first "entity X is ... end ...;" out of src.
func vhdlHeader(src string) (string, error) {
	toks, err := tokens(VHDLLexer, src)
	if err != nil {
		return "", parseErr("vhdl", err)
	}
	syms := VHDLLexer.Symbols()
	kwEntity, kwIs, kwEnd := syms["KwEntity"], syms["KwIs"], syms["KwEnd"]
	ident, semi := syms["Ident"], syms["Semicolon"]

	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Type != kwEntity || toks[i+1].Type != ident || toks[i+2].Type != kwIs {
			continue
		}
		depth := 0
		for j := i + 3; j < len(toks); j++ {
			switch toks[j].Value {
			case "(":
				depth++
			case ")":
				depth--
			}
			if depth != 0 || toks[j].Type != kwEnd {
				continue
			}
			for k := j + 1; k < len(toks); k++ {
				if toks[k].Type == semi {
					return src[toks[i].Pos.Offset : toks[k].Pos.Offset+1], nil
				}
			}
			break
		}
		return "", fmt.Errorf("vhdl: entity %s is not terminated", toks[i+1].Value)
	}
	return "", ErrNoEntity
}
