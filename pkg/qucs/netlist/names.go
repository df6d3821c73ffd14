package netlist

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W`)

// properName turns a file name into an identifier usable in every
// dialect: the .sch extension is dropped, non-word characters become '_',
// and names may not start with a digit or '_' nor contain "__".
func properName(name string) string {
	s := strings.TrimSuffix(filepath.Base(name), ".sch")
	if s == "" {
		return "n"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "n" + s
	}
	s = nonWord.ReplaceAllString(s, "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if s[0] == '_' {
		s = "n" + s
	}
	return s
}
