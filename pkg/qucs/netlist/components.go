package netlist

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/qucsnet/pkg/qucs/schematic"
)

// digitalGates maps gate types to their Verilog operator.
var digitalGates = map[string]string{
	"AND": "&", "NAND": "&",
	"OR": "|", "NOR": "|",
	"XOR": "^", "XNOR": "^~",
}

func portNodes(c *schematic.Component) []string {
	names := make([]string, len(c.Ports))
	for i, p := range c.Ports {
		if p.Node != nil {
			names[i] = p.Node.Name
		}
	}
	return names
}

// componentText renders one active or shorted component. Equation blocks
// of digital netlists and simulations are handled by the caller.
func componentText(c *schematic.Component, naming *NamingResult, dom Domain) (string, error) {
	if c.IsShort() {
		return shortText(c, dom.Dialect), nil
	}
	switch dom.Dialect {
	case VHDL:
		return vhdlText(c, naming, dom)
	case Verilog:
		return verilogText(c, naming, dom)
	}
	return analogText(c, naming), nil
}

// shortText ties every port of a shorted component to its first port.
func shortText(c *schematic.Component, d Dialect) string {
	nodes := portNodes(c)
	if len(nodes) < 2 {
		return ""
	}
	var b strings.Builder
	for k, n := range nodes[1:] {
		switch d {
		case Analog:
			b.WriteString("R:" + c.Name + "." + strconv.Itoa(k) + " " + nodes[0] + " " + n + " R=\"0\"\n")
		case VHDL:
			b.WriteString("  " + nodes[0] + " <= " + n + ";\n")
		case Verilog:
			b.WriteString("  assign " + nodes[0] + " = " + n + ";\n")
		}
	}
	return b.String()
}

func entryName(naming *NamingResult, c *schematic.Component, fallback string) string {
	if e := naming.Entries[c]; e != nil {
		return e.Name
	}
	return fallback
}

// instanceParams pairs the extra properties of a reference with the
// parameter names of its definition.
func instanceParams(props []schematic.Property, entry *CacheEntry) []schematic.Property {
	out := make([]schematic.Property, len(props))
	for i, p := range props {
		out[i] = p
		if entry != nil && i < len(entry.Params) && entry.Params[i] != "" {
			out[i].Name = entry.Params[i]
		}
	}
	return out
}

func tail(props []schematic.Property, n int) []schematic.Property {
	if len(props) <= n {
		return nil
	}
	return props[n:]
}

func analogText(c *schematic.Component, naming *NamingResult) string {
	var (
		typ   = c.Type
		nodes = portNodes(c)
		props []schematic.Property
	)
	switch k := c.Kind().(type) {
	case schematic.Ground, schematic.PortMarker:
		return ""
	case schematic.SubcircuitRef:
		typ = "Sub"
		props = append([]schematic.Property{{Name: "Type", Value: entryName(naming, c, properName(k.File))}},
			instanceParams(tail(c.Props, 1), naming.Entries[c])...)
	case schematic.LibraryRef:
		typ = "Sub"
		name := entryName(naming, c, properName(k.Library+"_"+k.Component))
		props = append([]schematic.Property{{Name: "Type", Value: name}},
			instanceParams(tail(c.Props, 2), naming.Entries[c])...)
	case schematic.ForeignFile:
		if len(c.Ports) == 0 {
			return ""
		}
		typ = "Sub"
		props = []schematic.Property{{Name: "Type", Value: entryName(naming, c, properName(k.File))}}
	default:
		if s := schematic.Lookup(c.Type); s != nil {
			if s.NetType != "" {
				typ = s.NetType
			}
			for _, i := range s.TiedPorts {
				if i < len(nodes) {
					nodes = append(nodes, nodes[i])
				}
			}
		}
		for _, p := range c.Props {
			if p.Name != "Symbol" {
				props = append(props, p)
			}
		}
	}

	var b strings.Builder
	b.WriteString(typ + ":" + c.Name)
	for _, n := range nodes {
		b.WriteString(" " + n)
	}
	for _, p := range props {
		b.WriteString(" " + p.Name + "=\"" + p.Value + "\"")
	}
	b.WriteString("\n")
	return b.String()
}

func vhdlText(c *schematic.Component, naming *NamingResult, dom Domain) (string, error) {
	nodes := portNodes(c)
	switch k := c.Kind().(type) {
	case schematic.PortMarker:
		if k.Direction == "out" && len(nodes) > 0 {
			return "  net_out" + nodes[0] + " <= " + nodes[0] + ";\n", nil
		}
		return "", nil
	case schematic.SubcircuitRef:
		return vhdlInstance(c.Name, "Sub_"+entryName(naming, c, properName(k.File)), tail(c.Props, 1), nodes), nil
	case schematic.LibraryRef:
		return vhdlInstance(c.Name, entryName(naming, c, properName(k.Library+"_"+k.Component)), tail(c.Props, 2), nodes), nil
	case schematic.ForeignFile:
		return vhdlInstance(c.Name, entryName(naming, c, properName(k.File)), tail(c.Props, 1), nodes), nil
	case schematic.DigitalSource:
		return vhdlSource(c, dom)
	case schematic.Device:
		return vhdlDevice(c, nodes, dom)
	}
	return "", nil
}

func vhdlInstance(name, entity string, generics []schematic.Property, nodes []string) string {
	s := "  " + name + ": entity " + entity
	if len(generics) > 0 {
		vals := make([]string, len(generics))
		for i, g := range generics {
			vals[i] = g.Value
		}
		s += " generic map (" + strings.Join(vals, ", ") + ")"
	}
	return s + " port map (" + strings.Join(nodes, ", ") + ");\n"
}

func vhdlDevice(c *schematic.Component, nodes []string, dom Domain) (string, error) {
	if len(nodes) < 2 {
		return "", nil
	}
	out, ins := nodes[0], nodes[1:]
	var rhs string
	switch c.Type {
	case "Inv":
		rhs = "not " + ins[0]
	case "Buf":
		rhs = ins[0]
	case "XNOR":
		rhs = ins[0]
		for _, in := range ins[1:] {
			rhs = "not ((" + rhs + ") xor " + in + ")"
		}
	default:
		if _, ok := digitalGates[c.Type]; !ok {
			return "", nil
		}
		op := strings.ToLower(c.Type)
		inverted := c.Type == "NAND" || c.Type == "NOR"
		if inverted {
			op = op[1:]
		}
		rhs = strings.Join(ins, " "+op+" ")
		if inverted {
			rhs = "not (" + rhs + ")"
		}
	}
	s := "  " + out + " <= " + rhs
	if dom.NumPorts <= 0 {
		td, err := vhdlDelay(c.PropValue("t"), c.Name)
		if err != nil {
			return "", err
		}
		s += td
	}
	return s + ";\n", nil
}

// sourceSteps returns the toggle times of a digital source and its
// initial level. A truth-table source toggles with period 2^(Num-1) ns.
func sourceSteps(c *schematic.Component, dom Domain) ([]string, bool) {
	high := strings.EqualFold(strings.TrimSpace(c.PropValue("init")), "high")
	if dom.NumPorts > 0 {
		num, _ := strconv.Atoi(strings.TrimSpace(c.PropValue("Num")))
		if num < 1 {
			num = 1
		}
		period := strconv.Itoa(1<<(num-1)) + " ns"
		return []string{period, period}, false
	}
	var steps []string
	for _, t := range strings.Split(c.PropValue("times"), ";") {
		if t = strings.TrimSpace(t); t != "" {
			steps = append(steps, t)
		}
	}
	return steps, high
}

func level(high bool) string {
	if high {
		return "1"
	}
	return "0"
}

func vhdlSource(c *schematic.Component, dom Domain) (string, error) {
	nodes := portNodes(c)
	if len(nodes) == 0 {
		return "", nil
	}
	steps, high := sourceSteps(c, dom)
	var b strings.Builder
	b.WriteString("\n  " + c.Name + ":process\n  begin\n")
	for _, t := range steps {
		vt, err := vhdlTime(t, c.Name)
		if err != nil {
			return "", err
		}
		b.WriteString("    " + nodes[0] + " <= '" + level(high) + "';  wait for " + vt + ";\n")
		high = !high
	}
	b.WriteString("  end process;\n")
	return b.String(), nil
}

func verilogText(c *schematic.Component, naming *NamingResult, dom Domain) (string, error) {
	nodes := portNodes(c)
	switch k := c.Kind().(type) {
	case schematic.SubcircuitRef:
		return verilogInstance(c.Name, "Sub_"+entryName(naming, c, properName(k.File)), tail(c.Props, 1), nodes), nil
	case schematic.LibraryRef:
		return verilogInstance(c.Name, entryName(naming, c, properName(k.Library+"_"+k.Component)), tail(c.Props, 2), nodes), nil
	case schematic.ForeignFile:
		return verilogInstance(c.Name, entryName(naming, c, properName(k.File)), tail(c.Props, 1), nodes), nil
	case schematic.DigitalSource:
		return verilogSource(c, dom)
	case schematic.Device:
		return verilogDevice(c, nodes, dom)
	}
	return "", nil
}

func verilogInstance(name, module string, params []schematic.Property, nodes []string) string {
	s := "  " + module
	if len(params) > 0 {
		vals := make([]string, len(params))
		for i, p := range params {
			vals[i] = verilogParam(p.Value)
		}
		s += " #(" + strings.Join(vals, ", ") + ")"
	}
	return s + " " + name + " (" + strings.Join(nodes, ", ") + ");\n"
}

func verilogDevice(c *schematic.Component, nodes []string, dom Domain) (string, error) {
	if len(nodes) < 2 {
		return "", nil
	}
	out, ins := nodes[0], nodes[1:]
	var rhs string
	switch c.Type {
	case "Inv":
		rhs = "~" + ins[0]
	case "Buf":
		rhs = ins[0]
	default:
		op, ok := digitalGates[c.Type]
		if !ok {
			return "", nil
		}
		rhs = strings.Join(ins, " "+op+" ")
		if c.Type == "NAND" || c.Type == "NOR" {
			rhs = "~(" + rhs + ")"
		}
	}
	s := "  assign"
	if dom.NumPorts <= 0 {
		td, err := verilogDelay(c.PropValue("t"), c.Name)
		if err != nil {
			return "", err
		}
		s += td
	}
	return s + " " + out + " = " + rhs + ";\n", nil
}

func verilogSource(c *schematic.Component, dom Domain) (string, error) {
	nodes := portNodes(c)
	if len(nodes) == 0 {
		return "", nil
	}
	n := nodes[0]
	reg := "net_src_" + c.Name + n
	steps, high := sourceSteps(c, dom)
	var b strings.Builder
	b.WriteString("\n  // " + c.Name + " digital source\n")
	b.WriteString("  assign  " + n + " = " + reg + ";\n")
	b.WriteString("  reg    " + reg + ";\n")
	b.WriteString("  always begin\n")
	for _, t := range steps {
		ps, err := verilogTime(t, c.Name)
		if err != nil {
			return "", err
		}
		b.WriteString("    " + reg + " = " + level(high) + ";\n")
		b.WriteString("    #" + ps + ";\n")
		high = !high
	}
	b.WriteString("  end\n")
	return b.String(), nil
}

// equations returns the name=value pairs of an equation block.
func equations(c *schematic.Component) []schematic.Property {
	var out []schematic.Property
	for _, p := range c.Props {
		if p.Named {
			out = append(out, p)
		}
	}
	return out
}

func vhdlEquations(c *schematic.Component, indent string) (string, error) {
	var b strings.Builder
	for _, p := range equations(c) {
		t, err := vhdlTime(p.Value, c.Name)
		if err != nil {
			return "", err
		}
		b.WriteString(indent + "constant " + p.Name + " : time := " + t + ";\n")
	}
	return b.String(), nil
}

func verilogEquations(c *schematic.Component, indent string) string {
	var b strings.Builder
	for _, p := range equations(c) {
		b.WriteString(indent + "real " + p.Name + "; initial " + p.Name + " = " + verilogParam(p.Value) + ";\n")
	}
	return b.String()
}
