package schematic

import (
	"sort"
	"strconv"
	"strings"
)

// Class selects the Kind variant of a component type.
type Class int

const (
	ClassDevice Class = iota
	ClassGround
	ClassPort
	ClassSubcircuit
	ClassLibrary
	ClassSPICE
	ClassVHDL
	ClassVerilog
	ClassEquation
	ClassSimulation
	ClassDigiSource
)

// Model is a bit set of the netlist dialects a component type can be
// emitted in.
type Model uint8

const (
	ModelAnalog Model = 1 << iota
	ModelVHDL
	ModelVerilog

	ModelDigital = ModelVHDL | ModelVerilog
	ModelAll     = ModelAnalog | ModelDigital
)

// PropSpec describes one declared property of a component type.
type PropSpec struct {
	Name    string
	Default string
	Display bool
	Since   Version // first format version that stores this property
}

// LegacyLayout is an explicit property order used by old files that cannot
// be expressed by Since cutoffs alone.
type LegacyLayout struct {
	MaxPairs int      // applies to records with at most this many value pairs
	Names    []string // stored order of the old format
}

// Schema is the per-type entry consulted by both the parser and the writer.
type Schema struct {
	Type  string
	Class Class
	Props []PropSpec

	// Variadic types append value pairs beyond Props as extra properties.
	Variadic  bool
	ExtraName func(i int) string
	// FreeForm types store "name=value" pairs followed by the trailing Props.
	FreeForm bool
	// NamedExtras types store their variadic pairs as "name=value".
	NamedExtras bool

	Legacy []LegacyLayout

	// Ports returns the port offsets for the given properties. Nil means
	// the geometry comes from a referenced file.
	Ports  func(props []Property) []Point
	Models Model

	// NetType is the analog netlist type when it differs from Type.
	NetType string
	// TiedPorts repeat the nodes of these ports after the regular ones,
	// for three-terminal symbols of four-terminal models.
	TiedPorts []int
}

var (
	v0011 = Version{0, 0, 11}
	v0012 = Version{0, 0, 12}
)

func prop(name, def string, display bool) PropSpec {
	return PropSpec{Name: name, Default: def, Display: display}
}

func propSince(name, def string, since Version) PropSpec {
	return PropSpec{Name: name, Default: def, Since: since}
}

func fixedPorts(pts ...Point) func([]Property) []Point {
	return func([]Property) []Point {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}
}

var (
	twoTerminal  = fixedPorts(Point{-30, 0}, Point{30, 0})
	vertical     = fixedPorts(Point{0, -30}, Point{0, 30})
	fourTerminal = fixedPorts(Point{-30, -30}, Point{30, -30}, Point{30, 30}, Point{-30, 30})
	// base/gate, collector/drain, emitter/source, then substrate/bulk
	threePin     = fixedPorts(Point{-30, 0}, Point{0, -30}, Point{0, 30})
	fourPin      = fixedPorts(Point{-30, 0}, Point{0, -30}, Point{0, 30}, Point{30, 0})
)

func propInt(props []Property, name string, def int) int {
	for _, p := range props {
		if p.Name == name {
			if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil && n > 0 {
				return n
			}
		}
	}
	return def
}

// gatePorts places the output first, then the inputs top to bottom.
func gatePorts(props []Property) []Point {
	n := propInt(props, "in", 2)
	pts := []Point{{30, 0}}
	y := -10 * (n - 1)
	for i := 0; i < n; i++ {
		pts = append(pts, Point{-30, y})
		y += 20
	}
	return pts
}

func branchPorts(name string) func([]Property) []Point {
	return func(props []Property) []Point {
		n := propInt(props, name, 1)
		var pts []Point
		for i := 0; i < n; i++ {
			y := 60 * i
			pts = append(pts, Point{-30, y}, Point{30, y})
		}
		return pts
	}
}

func spicePorts(props []Property) []Point {
	return BoxPorts(len(SplitPortList(propValue(props, "Ports"))))
}

// spfilePorts reads the port count from a Touchstone extension (.s2p).
func spfilePorts(props []Property) []Point {
	f := strings.ToLower(propValue(props, "File"))
	n := 1
	if i := strings.LastIndex(f, ".s"); i >= 0 && strings.HasSuffix(f, "p") {
		if v, err := strconv.Atoi(f[i+2 : len(f)-1]); err == nil && v > 0 {
			n = v
		}
	}
	return BoxPorts(n + 1)
}

func propValue(props []Property, name string) string {
	for _, p := range props {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// SplitPortList splits the comma separated port list of a SPICE component.
func SplitPortList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func gate(typ string) *Schema {
	return &Schema{
		Type: typ,
		Props: []PropSpec{
			prop("in", "2", false),
			prop("V", "1 V", false),
			prop("t", "0", false),
			propSince("TR", "10", v0012),
			prop("Symbol", "old", false),
		},
		Ports:  gatePorts,
		Models: ModelAll,
	}
}

func oneInput(typ string) *Schema {
	return &Schema{
		Type: typ,
		Props: []PropSpec{
			prop("V", "1 V", false),
			prop("t", "0", false),
			propSince("TR", "10", v0012),
			prop("Symbol", "old", false),
		},
		Ports:  fixedPorts(Point{30, 0}, Point{-30, 0}),
		Models: ModelAll,
	}
}

// pulse returns a two-level pulse source. unit is "U" or "I".
func pulse(typ, unit, high string) *Schema {
	return &Schema{Type: typ, Props: []PropSpec{
		prop(unit+"1", "0", true),
		prop(unit+"2", high, true),
		prop("T1", "0", true),
		prop("T2", "1 ms", true),
		prop("Tr", "1 ns", false),
		prop("Tf", "1 ns", false),
	}, Ports: vertical, Models: ModelAnalog}
}

func rect(typ, unit, level string) *Schema {
	return &Schema{Type: typ, Props: []PropSpec{
		prop(unit, level, true),
		prop("TH", "1 ms", true),
		prop("TL", "1 ms", true),
		prop("Tr", "1 ns", false),
		prop("Tf", "1 ns", false),
		prop("Td", "0 ns", false),
	}, Ports: vertical, Models: ModelAnalog}
}

func noise(typ, unit string) *Schema {
	return &Schema{Type: typ, Props: []PropSpec{
		prop(unit, "1e-6", true),
		prop("e", "0", false),
		prop("c", "1", false),
		prop("a", "0", false),
	}, Ports: vertical, Models: ModelAnalog}
}

func controlled(typ, gain string) *Schema {
	return &Schema{Type: typ, Props: []PropSpec{
		prop("G", gain, true),
		prop("T", "0", false),
	}, Ports: fourTerminal, Models: ModelAnalog}
}

func bjtProps() []PropSpec {
	return []PropSpec{
		prop("Type", "npn", true),
		prop("Is", "1e-16", true),
		prop("Nf", "1", true),
		prop("Nr", "1", false),
		prop("Ikf", "0", false),
		prop("Ikr", "0", false),
		prop("Vaf", "0", true),
		prop("Var", "0", false),
		prop("Ise", "0", false),
		prop("Ne", "1.5", false),
		prop("Isc", "0", false),
		prop("Nc", "2", false),
		prop("Bf", "100", true),
		prop("Br", "1", false),
		prop("Rbm", "0", false),
		prop("Irb", "0", false),
		prop("Rc", "0", false),
		prop("Re", "0", false),
		prop("Rb", "0", false),
		prop("Cje", "0", false),
		prop("Vje", "0.75", false),
		prop("Mje", "0.33", false),
		prop("Cjc", "0", false),
		prop("Vjc", "0.75", false),
		prop("Mjc", "0.33", false),
		prop("Xcjc", "1.0", false),
		prop("Cjs", "0", false),
		prop("Vjs", "0.75", false),
		prop("Mjs", "0", false),
		prop("Fc", "0.5", false),
		prop("Tf", "0.0", false),
		prop("Xtf", "0.0", false),
		prop("Vtf", "0.0", false),
		prop("Itf", "0.0", false),
		prop("Tr", "0.0", false),
		prop("Temp", "26.85", false),
		prop("Kf", "0.0", false),
		prop("Af", "1.0", false),
		prop("Ffe", "1.0", false),
		prop("Kb", "0.0", false),
		prop("Ab", "1.0", false),
		prop("Fb", "1.0", false),
		prop("Ptf", "0.0", false),
		prop("Xtb", "0.0", false),
		prop("Xti", "3.0", false),
		prop("Eg", "1.11", false),
		prop("Tnom", "26.85", false),
		prop("Area", "1.0", false),
	}
}

func mosfetProps() []PropSpec {
	return []PropSpec{
		prop("Type", "nfet", true),
		prop("Vt0", "1.0 V", true),
		prop("Kp", "2e-5", true),
		prop("Gamma", "0.0", false),
		prop("Phi", "0.6 V", false),
		prop("Lambda", "0.0", true),
		prop("Rd", "0.0 Ohm", false),
		prop("Rs", "0.0 Ohm", false),
		prop("Rg", "0.0 Ohm", false),
		prop("Is", "1e-14 A", false),
		prop("N", "1.0", false),
		prop("W", "1 um", false),
		prop("L", "1 um", false),
		prop("Ld", "0.0", false),
		prop("Tox", "0.1 um", false),
		prop("Cgso", "0.0", false),
		prop("Cgdo", "0.0", false),
		prop("Cgbo", "0.0", false),
		prop("Cbd", "0.0 F", false),
		prop("Cbs", "0.0 F", false),
		prop("Pb", "0.8 V", false),
		prop("Mj", "0.5", false),
		prop("Fc", "0.5", false),
		prop("Cjsw", "0.0", false),
		prop("Mjsw", "0.33", false),
		prop("Tt", "0.0 ps", false),
		prop("Nsub", "0.0", false),
		prop("Nss", "0.0", false),
		prop("Tpg", "1", false),
		prop("Uo", "600.0", false),
		prop("Rsh", "0.0", false),
		prop("Nrd", "1", false),
		prop("Nrs", "1", false),
		prop("Cj", "0.0", false),
		prop("Js", "0.0", false),
		prop("Ad", "0.0", false),
		prop("As", "0.0", false),
		prop("Pd", "0.0 m", false),
		prop("Ps", "0.0 m", false),
		prop("Kf", "0.0", false),
		prop("Af", "1.0", false),
		prop("Ffe", "1.0", false),
		prop("Temp", "26.85", false),
		prop("Tnom", "26.85", false),
	}
}

var digiSim = &Schema{
	Type:  ".Digi",
	Class: ClassSimulation,
	Props: []PropSpec{
		prop("Type", "TimeList", true),
		prop("time", "10 ns", true),
		prop("Model", "VHDL", false),
	},
	Ports:  fixedPorts(),
	Models: ModelDigital,
}

var schemas = map[string]*Schema{}

func register(list ...*Schema) {
	for _, s := range list {
		if s.Ports == nil && s.Class == ClassDevice {
			s.Ports = twoTerminal
		}
		schemas[s.Type] = s
	}
}

func init() {
	register(
		&Schema{Type: "R", Props: []PropSpec{
			prop("R", "50 Ohm", true),
			prop("Temp", "26.85", false),
			propSince("Tc1", "0.0", v0011),
			propSince("Tc2", "0.0", v0011),
			propSince("Tnom", "26.85", v0011),
			prop("Symbol", "european", false),
		}, Models: ModelAnalog},
		&Schema{Type: "C", Props: []PropSpec{
			prop("C", "1 pF", true),
			prop("V", "", false),
			prop("Symbol", "neutral", false),
		}, Models: ModelAnalog},
		&Schema{Type: "L", Props: []PropSpec{
			prop("L", "1 nH", true),
			prop("I", "", false),
		}, Models: ModelAnalog},
		&Schema{Type: "Vdc", Props: []PropSpec{
			prop("U", "1 V", true),
		}, Ports: fixedPorts(Point{30, 0}, Point{-30, 0}), Models: ModelAnalog},
		&Schema{Type: "Idc", Props: []PropSpec{
			prop("I", "1 mA", true),
		}, Models: ModelAnalog},
		&Schema{Type: "Vac", Props: []PropSpec{
			prop("U", "1 V", true),
			prop("f", "1 GHz", false),
			prop("Phase", "0", false),
			prop("Theta", "0", false),
		}, Ports: fixedPorts(Point{30, 0}, Point{-30, 0}), Models: ModelAnalog},
		&Schema{Type: "Pac", Props: []PropSpec{
			prop("Num", "1", true),
			prop("Z", "50 Ohm", true),
			prop("P", "0 dBm", false),
			prop("f", "1 GHz", false),
			prop("Temp", "26.85", false),
		}, Ports: fixedPorts(Point{0, -30}, Point{0, 30}), Models: ModelAnalog},
		&Schema{Type: "Iprobe", Ports: fixedPorts(Point{-30, 0}, Point{30, 0}), Models: ModelAnalog},
		&Schema{Type: "Iac", Props: []PropSpec{
			prop("I", "1 mA", true),
			prop("f", "1 GHz", false),
			prop("Phase", "0", false),
			prop("Theta", "0", false),
		}, Ports: vertical, Models: ModelAnalog},
		pulse("Vpulse", "U", "1 V"), pulse("Ipulse", "I", "1 A"),
		rect("Vrect", "U", "1 V"), rect("Irect", "I", "1 mA"),
		noise("Vnoise", "u"), noise("Inoise", "i"),
		controlled("VCVS", "1"), controlled("VCCS", "1 S"),
		controlled("CCVS", "1 Ohm"), controlled("CCCS", "1"),
		&Schema{Type: "Switch", Props: []PropSpec{
			prop("init", "off", true),
			prop("time", "1 ms", true),
			prop("Ron", "0", false),
			prop("Roff", "1e12", false),
			prop("Temp", "26.85", false),
			prop("MaxDuration", "1e-6", false),
			prop("Transition", "spline", false),
		}, Models: ModelAnalog},
		&Schema{Type: "OpAmp", Props: []PropSpec{
			prop("G", "1e6", true),
			prop("Umax", "15 V", false),
		}, Ports: fixedPorts(Point{-30, -20}, Point{-30, 20}, Point{40, 0}), Models: ModelAnalog},
		&Schema{Type: "_BJT", Props: bjtProps(), Ports: threePin, Models: ModelAnalog,
			NetType: "BJT", TiedPorts: []int{2}},
		&Schema{Type: "BJT", Props: bjtProps(), Ports: fourPin, Models: ModelAnalog},
		&Schema{Type: "_MOSFET", Props: mosfetProps(), Ports: threePin, Models: ModelAnalog,
			NetType: "MOSFET", TiedPorts: []int{2}},
		&Schema{Type: "MOSFET", Props: mosfetProps(), Ports: fourPin, Models: ModelAnalog},
		&Schema{Type: "JFET", Props: []PropSpec{
			prop("Type", "nfet", true),
			prop("Vt0", "-2.0 V", true),
			prop("Beta", "1e-4", true),
			prop("Lambda", "0.0", true),
			prop("Rd", "0.0", false),
			prop("Rs", "0.0", false),
			prop("Is", "1e-14", false),
			prop("N", "1.0", false),
			prop("Isr", "1e-14", false),
			prop("Nr", "2.0", false),
			prop("Cgs", "0.0", false),
			prop("Cgd", "0.0", false),
			prop("Pb", "1.0", false),
			prop("Fc", "0.5", false),
			prop("M", "0.5", false),
			prop("Kf", "0.0", false),
			prop("Af", "1.0", false),
			prop("Ffe", "1.0", false),
			prop("Temp", "26.85", false),
			prop("Xti", "3.0", false),
			prop("Vt0tc", "0.0", false),
			prop("Betatce", "0.0", false),
			prop("Tnom", "26.85", false),
			prop("Area", "1.0", false),
		}, Ports: threePin, Models: ModelAnalog},
		&Schema{Type: "Diode", Props: []PropSpec{
			prop("Is", "1e-15 A", true),
			prop("N", "1", true),
			prop("Cj0", "10 fF", true),
			prop("M", "0.5", false),
			prop("Vj", "0.7 V", false),
			prop("Fc", "0.5", false),
			prop("Cp", "0.0 fF", false),
			prop("Isr", "0.0", false),
			prop("Nr", "2.0", false),
			prop("Rs", "0.0 Ohm", false),
			prop("Tt", "0.0 ps", false),
			prop("Ikf", "0", false),
			prop("Kf", "0", false),
			prop("Af", "1", false),
			prop("Ffe", "1", false),
			prop("Bv", "0", false),
			prop("Ibv", "1 mA", false),
			prop("Temp", "26.85", false),
			prop("Xti", "3.0", false),
			prop("Eg", "1.11", false),
			prop("Tbv", "0.0", false),
			prop("Trs", "0.0", false),
			prop("Ttt1", "0.0", false),
			prop("Ttt2", "0.0", false),
			prop("Tm1", "0.0", false),
			prop("Tm2", "0.0", false),
			prop("Tnom", "26.85", false),
			prop("Area", "1.0", false),
			prop("Symbol", "normal", false),
		}, Legacy: []LegacyLayout{{MaxPairs: 27, Names: []string{
			"Is", "N", "Cj0", "M", "Vj", "Fc", "Cp", "Isr", "Nr", "Rs", "Tt",
			"Temp", "Kf", "Af", "Ffe", "Bv", "Ibv", "Xti", "Eg", "Tbv", "Trs",
			"Ttt1", "Ttt2", "Tm1", "Tm2", "Tnom", "Area",
		}}}, Models: ModelAnalog},
		&Schema{Type: "MUTX", Props: []PropSpec{
			prop("Lcount", "2", false),
			prop("L1", "1 mH", false),
			prop("L2", "1 mH", false),
			prop("k12", "0.9", false),
		}, Variadic: true, Ports: branchPorts("Lcount"), Models: ModelAnalog},
		&Schema{Type: "EDD", Props: []PropSpec{
			prop("Type", "explicit", false),
			prop("Branches", "1", false),
			prop("I1", "0", true),
			prop("Q1", "0", true),
		}, Variadic: true, ExtraName: func(i int) string {
			b := strconv.Itoa(i/2 + 2)
			if i%2 == 0 {
				return "I" + b
			}
			return "Q" + b
		}, Ports: branchPorts("Branches"), Models: ModelAnalog},
		&Schema{Type: "RFEDD", Props: []PropSpec{
			prop("Type", "Y", false),
			prop("duringDC", "open", false),
			prop("Ports", "2", false),
			prop("P11", "0", false),
			prop("P12", "0", false),
			prop("P21", "0", false),
			prop("P22", "0", false),
		}, Variadic: true, Ports: func(props []Property) []Point {
			return BoxPorts(propInt(props, "Ports", 2))
		}, Models: ModelAnalog},
		&Schema{Type: "SPfile", Props: []PropSpec{
			prop("File", "test.s1p", true),
			prop("Data", "rectangular", false),
			prop("Interpolator", "linear", false),
			prop("duringDC", "open", false),
		}, Ports: spfilePorts, Models: ModelAnalog},

		&Schema{Type: "GND", Class: ClassGround, Ports: fixedPorts(Point{0, 0}), Models: ModelAll},
		&Schema{Type: "Port", Class: ClassPort, Props: []PropSpec{
			prop("Num", "1", true),
			prop("Type", "analog", false),
		}, Ports: fixedPorts(Point{0, 0}), Models: ModelAll},
		&Schema{Type: "Sub", Class: ClassSubcircuit, Props: []PropSpec{
			prop("File", "", true),
		}, Variadic: true, Models: ModelAll},
		&Schema{Type: "Lib", Class: ClassLibrary, Props: []PropSpec{
			prop("Lib", "", false),
			prop("Comp", "", true),
		}, Variadic: true, Models: ModelAll},
		&Schema{Type: "SPICE", Class: ClassSPICE, Props: []PropSpec{
			prop("File", "", true),
			prop("Ports", "", false),
			prop("Sim", "yes", false),
			prop("Preprocessor", "none", false),
		}, Ports: spicePorts, Models: ModelAnalog},
		&Schema{Type: "VHDL", Class: ClassVHDL, Props: []PropSpec{
			prop("File", "", true),
		}, Variadic: true, Models: ModelVHDL},
		&Schema{Type: "Verilog", Class: ClassVerilog, Props: []PropSpec{
			prop("File", "", true),
		}, Models: ModelVerilog},
		&Schema{Type: "Eqn", Class: ClassEquation, Props: []PropSpec{
			prop("Export", "yes", false),
		}, FreeForm: true, Ports: fixedPorts(), Models: ModelAll},

		gate("AND"), gate("OR"), gate("NAND"), gate("NOR"), gate("XOR"), gate("XNOR"),
		oneInput("Inv"), oneInput("Buf"),
		&Schema{Type: "DigiSource", Class: ClassDigiSource, Props: []PropSpec{
			prop("Num", "1", true),
			prop("init", "low", false),
			prop("times", "1ns; 1ns", false),
			prop("V", "1 V", false),
		}, Ports: fixedPorts(Point{30, 0}), Models: ModelAll},

		&Schema{Type: ".DC", Class: ClassSimulation, Props: []PropSpec{
			prop("Temp", "26.85", false),
			prop("reltol", "0.001", false),
			prop("abstol", "1 pA", false),
			prop("vntol", "1 uV", false),
			prop("saveOPs", "no", false),
			prop("MaxIter", "150", false),
			prop("saveAll", "no", false),
			prop("convHelper", "none", false),
			prop("Solver", "CroutLU", false),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".AC", Class: ClassSimulation, Props: []PropSpec{
			prop("Type", "lin", true),
			prop("Start", "1 GHz", true),
			prop("Stop", "10 GHz", true),
			prop("Points", "19", true),
			prop("Noise", "no", false),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".SP", Class: ClassSimulation, Props: []PropSpec{
			prop("Type", "lin", true),
			prop("Start", "1 GHz", true),
			prop("Stop", "10 GHz", true),
			prop("Points", "19", true),
			prop("Noise", "no", false),
			prop("NoiseIP", "1", false),
			prop("NoiseOP", "2", false),
			prop("saveCVs", "no", false),
			prop("saveAll", "no", false),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".TR", Class: ClassSimulation, Props: []PropSpec{
			prop("Type", "lin", true),
			prop("Start", "0", true),
			prop("Stop", "1 ms", true),
			prop("Points", "11", false),
			prop("IntegrationMethod", "Trapezoidal", false),
			prop("Order", "2", false),
			prop("InitialStep", "1 ns", false),
			prop("MinStep", "1e-16", false),
			prop("MaxIter", "150", false),
			prop("reltol", "0.001", false),
			prop("abstol", "1 pA", false),
			prop("vntol", "1 uV", false),
			prop("Temp", "26.85", false),
			prop("LTEreltol", "1e-3", false),
			prop("LTEabstol", "1e-6", false),
			prop("LTEfactor", "1", false),
			prop("Solver", "CroutLU", false),
			prop("relaxTSR", "no", false),
			prop("initialDC", "yes", false),
			prop("MaxStep", "0", false),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".SW", Class: ClassSimulation, Props: []PropSpec{
			prop("Sim", "DC1", true),
			prop("Type", "lin", true),
			prop("Param", "R1", true),
			prop("Start", "5 Ohm", true),
			prop("Stop", "50 Ohm", true),
			prop("Points", "20", true),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".HB", Class: ClassSimulation, Props: []PropSpec{
			prop("f", "1 GHz", true),
			prop("n", "4", true),
			prop("iabstol", "1 pA", false),
			prop("vabstol", "1 uV", false),
			prop("reltol", "0.001", false),
			prop("MaxIter", "150", false),
		}, Ports: fixedPorts(), Models: ModelAnalog},
		&Schema{Type: ".Opt", Class: ClassSimulation, Props: []PropSpec{
			prop("Sim", "", true),
			prop("DE", "3|50|2|20|0.85|1|3|1e-6|10|100", false),
		}, Variadic: true, NamedExtras: true, Ports: fixedPorts(), Models: ModelAnalog},
		digiSim,
	)
}

// aliases maps legacy type tags to their current schema and the property
// values the old tag implies.
var aliases = map[string]struct {
	Type      string
	Overrides map[string]string
}{
	"Rus": {Type: "R", Overrides: map[string]string{"Symbol": "US"}},
}

// Lookup returns the schema for a type tag, or nil.
func Lookup(typ string) *Schema {
	return schemas[canonicalType(typ)]
}

// Types returns all registered type tags in sorted order.
func Types() []string {
	out := make([]string, 0, len(schemas))
	for t := range schemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func canonicalType(typ string) string {
	if a, ok := aliases[typ]; ok {
		return a.Type
	}
	if strings.HasPrefix(typ, "SPfile") {
		return "SPfile"
	}
	return typ
}

// Supports reports whether the type has a model in any dialect of m.
func (s *Schema) Supports(m Model) bool {
	return s.Models&m != 0
}

// Defaults returns the declared properties with their default values.
func (s *Schema) Defaults() []Property {
	out := make([]Property, len(s.Props))
	for i, p := range s.Props {
		out[i] = Property{Name: p.Name, Value: p.Default, Display: p.Display}
	}
	return out
}

func (s *Schema) extraName(i, index int) string {
	if s.ExtraName != nil {
		return s.ExtraName(i)
	}
	return "p" + strconv.Itoa(index+1)
}

// layout returns the property names stored by a record with the given
// number of value pairs at file version v. The boolean is false when no
// layout matches and the record must be read positionally.
func (s *Schema) layout(pairs int, v Version) ([]string, bool) {
	names := func(cut Version) []string {
		var out []string
		for _, p := range s.Props {
			if p.Since.Compare(cut) <= 0 {
				out = append(out, p.Name)
			}
		}
		return out
	}

	if l := names(v); len(l) == pairs {
		return l, true
	}
	for _, cut := range s.cutoffs() {
		if l := names(cut); len(l) == pairs {
			return l, true
		}
	}
	for _, leg := range s.Legacy {
		if pairs <= leg.MaxPairs && pairs <= len(leg.Names) {
			return leg.Names[:pairs], true
		}
	}
	return nil, false
}

// cutoffs lists the versions just before each Since boundary, newest
// first.
func (s *Schema) cutoffs() []Version {
	seen := map[Version]bool{}
	var out []Version
	for _, p := range s.Props {
		if p.Since.IsZero() || seen[p.Since] {
			continue
		}
		seen[p.Since] = true
		out = append(out, p.Since.Prev())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) > 0 })
	return out
}
