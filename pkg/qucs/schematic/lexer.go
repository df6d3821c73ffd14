package schematic

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// RecordLexer tokenizes one <...> record. Quoted values never contain a
// double quote, so a string runs to the next one.
var RecordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Open", Pattern: `<`},
	{Name: "Close", Pattern: `>`},
	{Name: "Word", Pattern: `[^\s"<>]+`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// record is a single bracketed body line.
type record struct {
	Fields []*field `"<" @@* ">"`
}

type field struct {
	Quoted *string `  @String`
	Bare   *string `| @Word`
}

var recordParser = participle.MustBuild[record](
	participle.Lexer(RecordLexer),
	participle.Elide("Whitespace"),
)

// token is one decoded field of a record.
type token struct {
	Text   string
	Quoted bool
}

// splitRecord parses a record line into its fields. Quotes are stripped
// from string fields.
func splitRecord(line string) ([]token, error) {
	rec, err := recordParser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	toks := make([]token, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		switch {
		case f.Quoted != nil:
			s := *f.Quoted
			toks = append(toks, token{Text: s[1 : len(s)-1], Quoted: true})
		case f.Bare != nil:
			toks = append(toks, token{Text: *f.Bare})
		}
	}
	return toks, nil
}
