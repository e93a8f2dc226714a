package mapping

import "testing"

func TestNewRejectsOutOfRangeTable(t *testing.T) {
	cases := []struct {
		name  string
		table uint32
		want  bool // want error
	}{
		{"below-min", 999, true},
		{"at-min", 1000, false},
		{"at-max", 30000, true},
		{"below-max", 29999, false},
	}
	for _, c := range cases {
		_, err := New([]Entry{{Interface: "eno1", Table: c.table}})
		if (err != nil) != c.want {
			t.Errorf("%s: table=%d error=%v, want error=%v", c.name, c.table, err, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	tbl, err := New([]Entry{{Interface: "eno1", Table: 2000}, {Interface: "eno2", Table: 3000}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, ok := tbl.Lookup("eno1"); !ok || v != 2000 {
		t.Errorf("Lookup(eno1) = %d, %v, want 2000, true", v, ok)
	}
	if _, ok := tbl.Lookup("eno9"); ok {
		t.Errorf("Lookup(eno9) unexpectedly found")
	}
	if !tbl.HasTable(3000) {
		t.Errorf("HasTable(3000) = false, want true")
	}
	if tbl.HasTable(9999) {
		t.Errorf("HasTable(9999) = true, want false")
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestNewRejectsEmptyInterface(t *testing.T) {
	if _, err := New([]Entry{{Interface: "", Table: 2000}}); err == nil {
		t.Errorf("expected error for empty interface name")
	}
}
