package utils

import "testing"

func TestIntern(t *testing.T) {
	chr1 := "chr" + "1"
	s1 := Intern(chr1)
	s2 := Intern(string([]byte("chr1")))
	if s1 != s2 {
		t.Error("Intern returned different symbols for equal strings")
	}
	if *s1 != "chr1" {
		t.Error("Intern changed the string")
	}
	if Intern("chr2") == s1 {
		t.Error("Intern returned the same symbol for different strings")
	}
	if SymbolHash(s1) != SymbolHash(s2) {
		t.Error("SymbolHash differs for equal symbols")
	}
}
