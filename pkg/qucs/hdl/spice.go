package hdl

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SpiceError reports a SPICE card that cannot be converted.
type SpiceError struct {
	Line int
	Card string
	Msg  string
}

func (e *SpiceError) Error() string {
	return fmt.Sprintf("spice: line %d: %s: %q", e.Line, e.Msg, e.Card)
}

type spiceCard struct {
	line   int
	fields []string
}

type spiceSubckt struct {
	name  string
	nodes []string
	cards []spiceCard
}

// spiceDiodeParams maps SPICE diode model parameters to Qucs Diode
// properties.
var spiceDiodeParams = map[string]string{
	"IS":  "Is",
	"N":   "N",
	"RS":  "Rs",
	"CJO": "Cj0",
	"CJ0": "Cj0",
	"VJ":  "Vj",
	"M":   "M",
	"TT":  "Tt",
	"BV":  "Bv",
	"IBV": "Ibv",
	"EG":  "Eg",
	"XTI": "Xti",
}

// ConvertSpice translates a SPICE netlist into Qucs sub-circuit
// definitions. The top-level cards become ".Def:<name>" over ports;
// every .SUBCKT becomes its own definition placed before it.
//
// Supported elements are R, C, L, V, I, D and X. Node 0 maps to gnd.
// Analysis and option cards are ignored.
func ConvertSpice(name, src string, ports []string) (*Leaf, error) {
	top, subs, models, err := readSpice(src)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, sc := range subs {
		if err := writeSpiceDef(&b, sc.name, sc.nodes, sc.cards, models); err != nil {
			return nil, err
		}
	}

	used := make(map[string]bool)
	for _, c := range top {
		for _, n := range spiceNodes(c.fields) {
			used[spiceNode(n)] = true
		}
	}
	for _, p := range ports {
		if !used[spiceNode(p)] {
			return nil, fmt.Errorf("spice: port %q is not connected in the netlist", p)
		}
	}
	if err := writeSpiceDef(&b, name, ports, top, models); err != nil {
		return nil, err
	}
	return &Leaf{Name: name, Ports: ports, Text: b.String()}, nil
}

func readSpice(src string) (top []spiceCard, subs []*spiceSubckt, models map[string]map[string]string, err error) {
	models = make(map[string]map[string]string)
	var cards []spiceCard

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if n == 1 || line == "" || line[0] == '*' {
			continue
		}
		if i := strings.IndexAny(line, ";$"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		if line[0] == '+' {
			if len(cards) == 0 {
				return nil, nil, nil, &SpiceError{Line: n, Card: line, Msg: "continuation without card"}
			}
			last := &cards[len(cards)-1]
			last.fields = append(last.fields, spiceFields(line[1:])...)
			continue
		}
		cards = append(cards, spiceCard{line: n, fields: spiceFields(line)})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("spice: %w", err)
	}

	var cur *spiceSubckt
scan:
	for _, c := range cards {
		if len(c.fields) == 0 {
			continue
		}
		key := strings.ToUpper(c.fields[0])
		switch {
		case key == ".SUBCKT":
			if cur != nil {
				return nil, nil, nil, &SpiceError{Line: c.line, Card: key, Msg: "nested .SUBCKT"}
			}
			if len(c.fields) < 2 {
				return nil, nil, nil, &SpiceError{Line: c.line, Card: key, Msg: "missing sub-circuit name"}
			}
			cur = &spiceSubckt{name: c.fields[1]}
			for _, f := range c.fields[2:] {
				if strings.Contains(f, "=") || strings.EqualFold(f, "PARAMS:") {
					break
				}
				cur.nodes = append(cur.nodes, f)
			}
		case key == ".ENDS":
			if cur == nil {
				return nil, nil, nil, &SpiceError{Line: c.line, Card: key, Msg: ".ENDS without .SUBCKT"}
			}
			subs = append(subs, cur)
			cur = nil
		case key == ".END":
			break scan
		case key == ".MODEL":
			if len(c.fields) >= 3 && strings.EqualFold(spiceModelType(c.fields[2]), "D") {
				models[strings.ToUpper(c.fields[1])] = spiceModelParams(c.fields[2:])
			}
		case key[0] == '.':
			// analysis, option and parameter cards
		case cur != nil:
			cur.cards = append(cur.cards, c)
		default:
			top = append(top, c)
		}
	}
	if cur != nil {
		return nil, nil, nil, fmt.Errorf("spice: .SUBCKT %s is not terminated", cur.name)
	}
	return top, subs, models, nil
}

// spiceFields splits a card on whitespace, keeping "(a b)" groups and
// "k = v" assignments together.
func spiceFields(line string) []string {
	line = strings.NewReplacer("(", " ( ", ")", " ) ", "=", " = ", ",", " ").Replace(line)
	raw := strings.Fields(line)
	var out []string
	for i := 0; i < len(raw); i++ {
		if raw[i] == "=" && len(out) > 0 && i+1 < len(raw) {
			out[len(out)-1] += "=" + raw[i+1]
			i++
			continue
		}
		out = append(out, raw[i])
	}
	return out
}

func spiceModelType(f string) string {
	if i := strings.Index(f, "("); i >= 0 {
		return f[:i]
	}
	return f
}

func spiceModelParams(fields []string) map[string]string {
	params := make(map[string]string)
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		if q, ok := spiceDiodeParams[strings.ToUpper(k)]; ok {
			params[q] = SpiceValue(v)
		}
	}
	return params
}

// spiceNodes returns the node fields of an element card.
func spiceNodes(f []string) []string {
	if len(f) == 0 {
		return nil
	}
	switch strings.ToUpper(f[0][:1]) {
	case "R", "C", "L", "V", "I", "D":
		if len(f) >= 3 {
			return f[1:3]
		}
	case "X":
		var nodes []string
		for _, n := range f[1:] {
			if strings.Contains(n, "=") || strings.EqualFold(n, "PARAMS:") {
				break
			}
			nodes = append(nodes, n)
		}
		if len(nodes) > 0 {
			return nodes[:len(nodes)-1]
		}
	}
	return nil
}

var nonWord = regexp.MustCompile(`\W`)

func spiceNode(n string) string {
	if n == "0" || strings.EqualFold(n, "gnd") {
		return "gnd"
	}
	return nonWord.ReplaceAllString(n, "_")
}

func writeSpiceDef(b *strings.Builder, name string, ports []string, cards []spiceCard, models map[string]map[string]string) error {
	nodes := make([]string, len(ports))
	for i, p := range ports {
		nodes[i] = spiceNode(p)
	}
	fmt.Fprintf(b, "\n.Def:%s %s\n", name, strings.Join(nodes, " "))
	for _, c := range cards {
		line, err := spiceElement(c, models)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(".Def:End\n")
	return nil
}

func spiceElement(c spiceCard, models map[string]map[string]string) (string, error) {
	f := c.fields
	card := strings.Join(f, " ")
	unsupported := &SpiceError{Line: c.line, Card: card, Msg: "unsupported element"}
	short := &SpiceError{Line: c.line, Card: card, Msg: "too few fields"}

	name := f[0]
	letter := strings.ToUpper(name[:1])
	nodes := spiceNodes(f)
	switch letter {
	case "R", "C", "L":
		if len(f) < 4 {
			return "", short
		}
		return fmt.Sprintf("%s:%s %s %s %s=\"%s\"", letter, name,
			spiceNode(nodes[0]), spiceNode(nodes[1]), letter, SpiceValue(f[3])), nil
	case "V", "I":
		if len(f) < 3 {
			return "", short
		}
		val, ok := spiceSourceValue(f[3:])
		if !ok {
			return "", unsupported
		}
		typ, prop := "Vdc", "U"
		if letter == "I" {
			typ, prop = "Idc", "I"
		}
		return fmt.Sprintf("%s:%s %s %s %s=\"%s\"", typ, name,
			spiceNode(nodes[0]), spiceNode(nodes[1]), prop, val), nil
	case "D":
		if len(f) < 4 {
			return "", short
		}
		// Qucs orders diode nodes cathode first.
		line := fmt.Sprintf("Diode:%s %s %s", name, spiceNode(nodes[1]), spiceNode(nodes[0]))
		params := models[strings.ToUpper(f[3])]
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=\"%s\"", k, params[k])
		}
		return line, nil
	case "X":
		if len(nodes) == 0 {
			return "", short
		}
		parts := make([]string, len(nodes))
		for i, n := range nodes {
			parts[i] = spiceNode(n)
		}
		sub := f[len(nodes)+1]
		return fmt.Sprintf("Sub:%s %s Type=\"%s\"", name, strings.Join(parts, " "), sub), nil
	}
	return "", unsupported
}

// spiceSourceValue accepts "v", "DC v" and nothing (zero).
func spiceSourceValue(f []string) (string, bool) {
	switch {
	case len(f) == 0:
		return "0", true
	case len(f) == 1:
		return SpiceValue(f[0]), true
	case len(f) == 2 && strings.EqualFold(f[0], "DC"):
		return SpiceValue(f[1]), true
	}
	return "", false
}

var spiceScales = []struct {
	suffix string
	exp    int
}{
	{"MEG", 6},
	{"T", 12},
	{"G", 9},
	{"K", 3},
	{"M", -3},
	{"U", -6},
	{"N", -9},
	{"P", -12},
	{"F", -15},
}

var spiceNumber = regexp.MustCompile(`^([-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+))(?:[eE]([-+]?[0-9]+))?([a-zA-Z]*)$`)

// SpiceValue converts a SPICE number with scale suffix ("4.7k", "1MEG",
// "10uF") into a plain number. SPICE suffixes are case-insensitive, so
// "1M" is milli. Anything that is not a number is returned unchanged.
func SpiceValue(s string) string {
	m := spiceNumber.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	exp := 0
	if m[2] != "" {
		exp, _ = strconv.Atoi(m[2])
	}
	suffix := strings.ToUpper(m[3])
	mil := strings.HasPrefix(suffix, "MIL")
	if !mil {
		for _, sc := range spiceScales {
			if strings.HasPrefix(suffix, sc.suffix) {
				exp += sc.exp
				break
			}
		}
	}
	v, err := strconv.ParseFloat(fmt.Sprintf("%se%d", m[1], exp), 64)
	if err != nil {
		return s
	}
	if mil {
		v *= 25.4e-6
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
