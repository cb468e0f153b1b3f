package mapping

import (
	"errors"
	"strings"
	"testing"

	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/value"
)

func TestTableShape(t *testing.T) {
	tests := []struct {
		path     string
		kind     Kind
		required bool
		repeated bool
	}{
		{"Entry_ID", KindPlain, true, false},
		{"Entry_Title", KindText, false, false},
		{"Metadata_Version", KindNumeric, false, false},
		{"DIF_Creation_Date", KindDate, false, false},
		{"Data_Set_Language", KindPlain, false, true},
		{"Data_Set_Citation", KindGroup, false, true},
		{"Data_Set_Citation/Dataset_Title", KindText, true, false},
		{"Data_Set_Citation/Dataset_Release_Date", KindDate, true, false},
		{"Data_Set_Citation/Version", KindNumeric, false, false},
		{"Data_Set_Citation/Online_Resource", KindPlain, true, false},
		{"Personnel/Role", KindPlain, false, true},
		{"Personnel/Contact_Address/City", KindText, false, false},
		{"Parameters/Variable_Level_1", KindPlain, true, false},
		{"Spatial_Coverage/Westernmost_Longitude", KindNumeric, false, false},
		{"Spatial_Coverage/Minimum_Depth", KindPlain, false, false},
		{"Location/Location_Type", KindPlain, true, false},
		{"Data_Resolution/Latitude_Resolution", KindNumeric, false, false},
		{"Data_Resolution/Temporal_Resolution", KindPlain, false, false},
		{"Data_Center/Data_Center_Name/Long_Name", KindText, false, false},
		{"Data_Center/Personnel/Last_Name", KindText, true, false},
		{"Summary/Abstract", KindText, false, false},
	}

	for _, tt := range tests {
		n, ok := Lookup(tt.path)
		if !ok {
			t.Errorf("Lookup(%q) found nothing", tt.path)
			continue
		}
		if n.Kind != tt.kind || n.Required != tt.required || n.Repeated != tt.repeated {
			t.Errorf("%s: got kind=%s required=%v repeated=%v, want kind=%s required=%v repeated=%v",
				tt.path, n.Kind, n.Required, n.Repeated, tt.kind, tt.required, tt.repeated)
		}
	}

	if _, ok := Lookup("Summary"); !ok {
		t.Error("Summary group missing from table")
	}
	if n, _ := Lookup("Sensor_Name"); n == nil || !n.AnyOf {
		t.Error("Sensor_Name should be an any-of group")
	}
}

func TestNumericFieldsMatchCoercionPolicy(t *testing.T) {
	want := map[string]bool{
		"Metadata_Version":                       true,
		"Data_Set_Citation/Version":              true,
		"Spatial_Coverage/Southernmost_Latitude": true,
		"Spatial_Coverage/Northernmost_Latitude": true,
		"Spatial_Coverage/Westernmost_Longitude": true,
		"Spatial_Coverage/Easternmost_Longitude": true,
		"Data_Resolution/Latitude_Resolution":    true,
		"Data_Resolution/Longitude_Resolution":   true,
	}

	got := make(map[string]bool)
	for _, n := range Fields() {
		if n.Kind == KindNumeric {
			got[n.PathString()] = true
		}
	}
	if len(got) != len(want) {
		t.Errorf("numeric fields = %v, want %v", got, want)
	}
	for path := range want {
		if !got[path] {
			t.Errorf("%s should be numeric", path)
		}
	}
}

func TestFieldsAreLeavesInRecordOrder(t *testing.T) {
	fields := Fields()
	if len(fields) == 0 {
		t.Fatal("Fields() is empty")
	}
	if fields[0].PathString() != "Entry_ID" {
		t.Errorf("first field = %s, want Entry_ID", fields[0].PathString())
	}
	if last := fields[len(fields)-1].PathString(); last != "Summary/Abstract" {
		t.Errorf("last field = %s, want Summary/Abstract", last)
	}
	for _, n := range fields {
		if n.IsGroup() {
			t.Errorf("Fields() returned group %s", n.PathString())
		}
	}
}

func TestPropertyNames(t *testing.T) {
	path := Naming{
		Strategy:  StrategyPath,
		Prefix:    "has",
		Segments:  map[string]string{"Parameters": "Parameter"},
		Overrides: map[string]string{"Summary/Abstract": "hasSummary"},
	}
	flat := Naming{Strategy: StrategyFlat, Prefix: "has"}

	tests := []struct {
		path     string
		pathName string
		flatName string
	}{
		{"Entry_ID", "hasEntryID", "hasEntryID"},
		{"DIF_Creation_Date", "hasDIFCreationDate", "hasDIFCreationDate"},
		{"Data_Set_Citation/Dataset_Creator", "hasDataSetCitationDatasetCreator", "hasDatasetCreator"},
		{"Data_Center/Data_Center_Name/Long_Name", "hasDataCenterDataCenterNameLongName", "hasLongName"},
		{"Data_Center/Personnel/First_Name", "hasDataCenterPersonnelFirstName", "hasFirstName"},
		{"Parameters/Variable_Level_1", "hasParameterVariableLevel1", "hasVariableLevel1"},
		{"Location/Location_Subregion_2", "hasLocationLocationSubregion2", "hasLocationSubregion2"},
		{"Personnel/Contact_Address/Province_or_State", "hasPersonnelContactAddressProvinceOrState", "hasProvinceOrState"},
		{"Summary/Abstract", "hasSummary", "hasAbstract"},
	}

	for _, tt := range tests {
		n, ok := Lookup(tt.path)
		if !ok {
			t.Fatalf("Lookup(%q) found nothing", tt.path)
		}
		if got := path.Property(n); got != tt.pathName {
			t.Errorf("path Property(%s) = %q, want %q", tt.path, got, tt.pathName)
		}
		if got := flat.Property(n); got != tt.flatName {
			t.Errorf("flat Property(%s) = %q, want %q", tt.path, got, tt.flatName)
		}
	}
}

func TestPathPropertiesAreUnique(t *testing.T) {
	reg, err := NewProfileRegistry()
	if err != nil {
		t.Fatal(err)
	}
	p, ok := reg.Get("podaac")
	if !ok {
		t.Fatal("podaac profile not embedded")
	}
	naming, err := p.NamingRules()
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]string)
	for _, n := range Fields() {
		name := naming.Property(n)
		if prev, dup := seen[name]; dup {
			t.Errorf("%s and %s both map to %s", prev, n.PathString(), name)
		}
		seen[name] = n.PathString()
	}
}

func sampleRecord() *hub.Record {
	return &hub.Record{
		EntryID:    "PODAAC-TEST-001",
		EntryTitle: "Sample Dataset",
		Citations: []hub.Citation{{
			Creator:        "NASA",
			Title:          "Sample",
			ReleaseDate:    "2020-01-01",
			OnlineResource: "http://example.org/ds",
		}},
		SensorNames: []hub.NamedPair{{ShortName: "MODIS"}},
		DataCenters: []hub.DataCenter{{
			Name:      &hub.NamedPair{ShortName: "NASA/JPL/PODAAC"},
			Personnel: []hub.Person{{FirstName: "Ada", LastName: "Lovelace", Emails: []string{"a@example.org", "b@example.org"}}},
		}},
		Summary: &hub.Summary{Abstract: "About the data"},
	}
}

func TestWalk(t *testing.T) {
	var got []string
	Walk(sampleRecord(), func(n *Node, v string) {
		got = append(got, n.PathString()+"="+v)
	})

	want := []string{
		"Entry_ID=PODAAC-TEST-001",
		"Entry_Title=Sample Dataset",
		"Data_Set_Citation/Dataset_Creator=NASA",
		"Data_Set_Citation/Dataset_Title=Sample",
		"Data_Set_Citation/Dataset_Release_Date=2020-01-01",
		"Data_Set_Citation/Online_Resource=http://example.org/ds",
		"Sensor_Name/Short_Name=MODIS",
		"Data_Center/Data_Center_Name/Short_Name=NASA/JPL/PODAAC",
		"Data_Center/Personnel/First_Name=Ada",
		"Data_Center/Personnel/Last_Name=Lovelace",
		"Data_Center/Personnel/Email=a@example.org",
		"Data_Center/Personnel/Email=b@example.org",
		"Summary/Abstract=About the data",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Walk() visited:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestNormalize(t *testing.T) {
	rec := &hub.Record{
		EntryID:         "  PODAAC-X \n",
		EntryTitle:      " <b>Bold</b> title ",
		MetadataName:    " <b>kept</b> ",
		DataSetLanguage: []string{" English ", "  "},
		Citations:       []hub.Citation{{Title: "\n\tSample\n"}},
		Summary:         &hub.Summary{Abstract: "  "},
	}
	Normalize(rec, value.WithStripHTML())

	if rec.EntryID != "PODAAC-X" {
		t.Errorf("EntryID = %q", rec.EntryID)
	}
	if rec.EntryTitle != "Bold title" {
		t.Errorf("EntryTitle = %q, want markup stripped from text field", rec.EntryTitle)
	}
	if rec.MetadataName != "<b>kept</b>" {
		t.Errorf("MetadataName = %q, plain fields must not be stripped", rec.MetadataName)
	}
	if len(rec.DataSetLanguage) != 1 || rec.DataSetLanguage[0] != "English" {
		t.Errorf("DataSetLanguage = %q", rec.DataSetLanguage)
	}
	if rec.Citations[0].Title != "Sample" {
		t.Errorf("Citation title = %q", rec.Citations[0].Title)
	}
	if rec.Summary.Abstract != "" {
		t.Errorf("Abstract = %q", rec.Summary.Abstract)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleRecord()); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		name  string
		edit  func(*hub.Record)
		field string
	}{
		{"entry id", func(r *hub.Record) { r.EntryID = "" }, "Entry_ID"},
		{"citation title", func(r *hub.Record) { r.Citations[0].Title = "" }, "Data_Set_Citation[0]/Dataset_Title"},
		{"second citation", func(r *hub.Record) {
			r.Citations = append(r.Citations, hub.Citation{Title: "t", ReleaseDate: "2020"})
		}, "Data_Set_Citation[1]/Online_Resource"},
		{"empty named pair", func(r *hub.Record) {
			r.Projects = []hub.NamedPair{{}}
		}, "Project[0]/Short_Name|Long_Name"},
		{"data center person", func(r *hub.Record) { r.DataCenters[0].Personnel[0].LastName = "" }, "Data_Center[0]/Personnel[0]/Last_Name"},
		{"location", func(r *hub.Record) {
			r.Locations = []hub.Location{{Category: "CONTINENT"}}
		}, "Location[0]/Location_Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord()
			tt.edit(rec)
			err := Validate(rec)
			var mf *hub.MissingFieldError
			if !errors.As(err, &mf) {
				t.Fatalf("Validate() = %v, want MissingFieldError", err)
			}
			if mf.Field != tt.field {
				t.Errorf("Field = %q, want %q", mf.Field, tt.field)
			}
			if mf.EntryID != rec.EntryID {
				t.Errorf("EntryID = %q, want %q", mf.EntryID, rec.EntryID)
			}
		})
	}
}

func TestValidateReportsFirstOfSeveral(t *testing.T) {
	rec := sampleRecord()
	rec.Citations[0].OnlineResource = ""
	rec.EntryID = ""

	missing := Missing(rec)
	if len(missing) != 2 {
		t.Fatalf("Missing() = %q", missing)
	}
	var mf *hub.MissingFieldError
	if err := Validate(rec); !errors.As(err, &mf) || mf.Field != "Entry_ID" {
		t.Errorf("Validate() = %v, want Entry_ID first", err)
	}
}
