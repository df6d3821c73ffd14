package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*([-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?)\s*(.*)$`)

// timeUnits maps the units accepted in time properties to picoseconds.
var timeUnits = map[string]float64{
	"fs":  1e-3,
	"ps":  1,
	"ns":  1e3,
	"us":  1e6,
	"ms":  1e9,
	"sec": 1e12,
	"min": 60e12,
	"hr":  3600e12,
}

// TimeFormatError reports a time property that is not a positive number
// followed by one of fs, ps, ns, us, ms, sec, min or hr.
type TimeFormatError struct {
	Component string
	Value     string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("netlist: wrong time format %q in %q, use positive number with units fs, ps, ns, us, ms, sec, min, hr",
		e.Value, e.Component)
}

func parseTime(t string) (float64, string, bool) {
	m := leadingNumber.FindStringSubmatch(t)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 {
		return 0, "", false
	}
	unit := strings.TrimSpace(m[2])
	if _, ok := timeUnits[unit]; !ok {
		return 0, "", false
	}
	return v, unit, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// vhdlTime normalizes a time property into a VHDL time literal.
func vhdlTime(t, component string) (string, error) {
	v, unit, ok := parseTime(t)
	if !ok {
		return "", &TimeFormatError{Component: component, Value: t}
	}
	return formatNumber(v) + " " + unit, nil
}

// verilogTime converts a time property into picoseconds.
func verilogTime(t, component string) (string, error) {
	v, unit, ok := parseTime(t)
	if !ok {
		return "", &TimeFormatError{Component: component, Value: t}
	}
	return formatNumber(v * timeUnits[unit]), nil
}

// leadingValue is the numeric prefix of s, or 0.
func leadingValue(s string) float64 {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, _ := strconv.ParseFloat(m[1], 64)
	return v
}

func startsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// vhdlDelay renders a gate delay as " after <time>". A zero delay renders
// as nothing; a name (a generic or constant) is used as is.
func vhdlDelay(td, component string) (string, error) {
	switch {
	case leadingValue(td) != 0:
		t, err := vhdlTime(td, component)
		if err != nil {
			return "", err
		}
		return " after " + t, nil
	case startsWithLetter(td):
		return " after " + td, nil
	}
	return "", nil
}

// verilogDelay renders a gate delay as " #<ps>".
func verilogDelay(td, component string) (string, error) {
	switch {
	case leadingValue(td) != 0:
		t, err := verilogTime(td, component)
		if err != nil {
			return "", err
		}
		return " #" + t, nil
	case startsWithLetter(td):
		return " #" + td, nil
	}
	return "", nil
}

var siPrefixes = map[byte]float64{
	'f': 1e-15, 'p': 1e-12, 'n': 1e-9, 'u': 1e-6, 'm': 1e-3,
	'k': 1e3, 'M': 1e6, 'G': 1e9, 'T': 1e12,
}

// verilogParam turns a Qucs value such as "1 kOhm" into a plain Verilog
// number. Expressions and names are passed through.
func verilogParam(v string) string {
	m := leadingNumber.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return v
	}
	unit := strings.TrimSpace(m[2])
	if unit != "" {
		if f, ok := siPrefixes[unit[0]]; ok {
			n *= f
		} else if !startsWithLetter(unit) {
			return v
		}
	}
	return formatNumber(n)
}

// SimulationTime returns the stop time of a digital simulation: the
// .Digi duration for a time list, or the length of a full truth-table
// sweep. Verilog times are in picoseconds.
func SimulationTime(dom Domain) (string, error) {
	if !dom.Dialect.Digital() || dom.Digi == nil {
		return "", nil
	}
	if dom.NumPorts > 0 {
		if dom.Dialect == Verilog {
			return strconv.Itoa(1 << dom.NumPorts), nil
		}
		return strconv.Itoa(1<<dom.NumPorts-1) + " ns", nil
	}
	t := dom.Digi.PropAt(1)
	if dom.Dialect == Verilog {
		return verilogTime(t, dom.Digi.Name)
	}
	return vhdlTime(t, dom.Digi.Name)
}
