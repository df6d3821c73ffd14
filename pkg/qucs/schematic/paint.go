package schematic

import (
	"sort"
	"strconv"
	"strings"
)

// PortSymbol is a decoded .PortSym painting.
type PortSymbol struct {
	Pos    Point
	Number int
}

// SubParameter is one user parameter of a sub-circuit symbol, stored in the
// .ID text as "display=name=default=description=type".
type SubParameter struct {
	Display     bool
	Name        string
	Default     string
	Description string
	Type        string
}

// IDText is a decoded .ID painting.
type IDText struct {
	Pos    Point
	Prefix string
	Params []SubParameter
}

// PortSymbol decodes a .PortSym painting: "<.PortSym x y number [rotation]>".
func (p Painting) PortSymbol() (PortSymbol, bool) {
	if p.Type != ".PortSym" {
		return PortSymbol{}, false
	}
	f := strings.Fields(p.Raw)
	if len(f) < 4 {
		return PortSymbol{}, false
	}
	x, err1 := strconv.Atoi(f[1])
	y, err2 := strconv.Atoi(f[2])
	num, err3 := strconv.Atoi(f[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return PortSymbol{}, false
	}
	return PortSymbol{Pos: Point{x, y}, Number: num}, true
}

// IDText decodes a .ID painting: `<.ID x y Prefix "1=R=50=resistance=" ...>`.
func (p Painting) IDText() (IDText, bool) {
	if p.Type != ".ID" {
		return IDText{}, false
	}
	toks, err := splitRecord("<" + p.Raw + ">")
	if err != nil || len(toks) < 3 {
		return IDText{}, false
	}
	x, err1 := strconv.Atoi(toks[1].Text)
	y, err2 := strconv.Atoi(toks[2].Text)
	if err1 != nil || err2 != nil {
		return IDText{}, false
	}
	id := IDText{Pos: Point{x, y}}
	rest := toks[3:]
	if len(rest) > 0 && !rest[0].Quoted {
		id.Prefix = rest[0].Text
		rest = rest[1:]
	}
	for _, t := range rest {
		if !t.Quoted {
			continue
		}
		parts := strings.Split(t.Text, "=")
		for len(parts) < 5 {
			parts = append(parts, "")
		}
		id.Params = append(id.Params, SubParameter{
			Display:     parts[0] == "1",
			Name:        parts[1],
			Default:     parts[2],
			Description: parts[3],
			Type:        parts[4],
		})
	}
	return id, true
}

func sortPortSymbols(ps []PortSymbol) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Number < ps[j].Number })
}
