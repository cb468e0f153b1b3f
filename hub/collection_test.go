package hub

import (
	"errors"
	"testing"
)

func TestCollectionPreservesOrder(t *testing.T) {
	c := NewCollection()
	if c.Len() != 0 {
		t.Fatalf("new collection has %d records", c.Len())
	}

	ids := []string{"B", "A", "B", "C"}
	for _, id := range ids {
		c.Append(&Record{EntryID: id})
	}

	if c.Len() != len(ids) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(ids))
	}
	for i, r := range c.All() {
		if r.EntryID != ids[i] {
			t.Errorf("record %d = %q, want %q", i, r.EntryID, ids[i])
		}
	}
}

func TestMissingFieldError(t *testing.T) {
	var err error = &MissingFieldError{Field: "Data_Set_Citation[0]/Dataset_Title", EntryID: "PODAAC-X"}
	if got, want := err.Error(), "PODAAC-X: missing required field Data_Set_Citation[0]/Dataset_Title"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var mf *MissingFieldError
	if !errors.As(err, &mf) || mf.EntryID != "PODAAC-X" {
		t.Errorf("errors.As did not recover the entry id")
	}

	err = &MissingFieldError{Field: "Entry_ID"}
	if got, want := err.Error(), "missing required field Entry_ID"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPersonFullName(t *testing.T) {
	tests := []struct {
		p    Person
		want string
	}{
		{Person{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Person{FirstName: "Ada", MiddleName: "King", LastName: "Lovelace"}, "Ada King Lovelace"},
		{Person{LastName: "Lovelace"}, "Lovelace"},
	}
	for _, tt := range tests {
		if got := tt.p.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestNamedPairName(t *testing.T) {
	if got := (NamedPair{ShortName: "NASA/JPL/PODAAC"}).Name(); got != "NASA/JPL/PODAAC" {
		t.Errorf("Name() = %q", got)
	}
	if got := (NamedPair{ShortName: "MODIS", LongName: "Moderate Resolution Imaging Spectroradiometer"}).Name(); got != "Moderate Resolution Imaging Spectroradiometer" {
		t.Errorf("Name() = %q", got)
	}
}
