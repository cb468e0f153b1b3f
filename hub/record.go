// Package hub holds the in-memory model of one dataset's metadata as read
// from a GCMD DIF document.
//
// Struct tags drive both directions of the mapping: the xml tag names the
// dialect element, and the dif tag gives the literal kind used when the
// value is projected ("plain", "text", "numeric" or "date"), optionally
// followed by "required". Group fields may carry "anyof", meaning at least
// one leaf of every instance must be present. An empty string means the
// value was absent in the source document.
package hub

// Record is one dataset's full metadata (one DIF document).
// A Record is built once by a parser and is not modified afterwards.
type Record struct {
	EntryID           string `xml:"Entry_ID" dif:"plain,required"`
	EntryTitle        string `xml:"Entry_Title" dif:"text"`
	AccessConstraints string `xml:"Access_Constraints" dif:"text"`
	UseConstraints    string `xml:"Use_Constraints" dif:"text"`
	OriginatingCenter string `xml:"Originating_Center" dif:"text"`
	MetadataName      string `xml:"Metadata_Name" dif:"plain"`
	MetadataVersion   string `xml:"Metadata_Version" dif:"numeric"`
	CreationDate      string `xml:"DIF_Creation_Date" dif:"date"`
	LastRevisionDate  string `xml:"Last_DIF_Revision_Date" dif:"date"`
	RevisionHistory   string `xml:"DIF_Revision_History" dif:"text"`

	DataSetLanguage  []string `xml:"Data_Set_Language" dif:"plain"`
	ISOTopicCategory []string `xml:"ISO_Topic_Category" dif:"plain"`

	Citations         []Citation         `xml:"Data_Set_Citation"`
	Personnel         []Person           `xml:"Personnel"`
	Parameters        []Parameter        `xml:"Parameters"`
	SensorNames       []NamedPair        `xml:"Sensor_Name" dif:",anyof"`
	SourceNames       []NamedPair        `xml:"Source_Name" dif:",anyof"`
	Projects          []NamedPair        `xml:"Project" dif:",anyof"`
	IDNNodes          []NamedPair        `xml:"IDN_Node" dif:",anyof"`
	TemporalCoverages []TemporalCoverage `xml:"Temporal_Coverage"`
	SpatialCoverages  []SpatialCoverage  `xml:"Spatial_Coverage"`
	Locations         []Location         `xml:"Location"`
	DataResolutions   []DataResolution   `xml:"Data_Resolution"`
	DataCenters       []DataCenter       `xml:"Data_Center"`
	References        []string           `xml:"Reference" dif:"text"`
	Summary           *Summary           `xml:"Summary"`

	// SourceInfo records where the record came from. It is not part of
	// the dialect and is never projected.
	SourceInfo SourceInfo `xml:"-"`
}

// SourceInfo tracks the provenance of a parsed record.
type SourceInfo struct {
	Format        string
	FormatVersion string
	Namespace     string
	SourceName    string
}

// Citation is a Data_Set_Citation group.
type Citation struct {
	Creator              string `xml:"Dataset_Creator" dif:"text"`
	Title                string `xml:"Dataset_Title" dif:"text,required"`
	SeriesName           string `xml:"Dataset_Series_Name" dif:"text"`
	ReleaseDate          string `xml:"Dataset_Release_Date" dif:"date,required"`
	ReleasePlace         string `xml:"Dataset_Release_Place" dif:"text"`
	Publisher            string `xml:"Dataset_Publisher" dif:"text"`
	Version              string `xml:"Version" dif:"numeric"`
	OtherCitationDetails string `xml:"Other_Citation_Details" dif:"text"`
	OnlineResource       string `xml:"Online_Resource" dif:"plain,required"`
}

// Person is a Personnel group, used both at the top level and inside a
// data center.
type Person struct {
	Roles          []string `xml:"Role" dif:"plain"`
	FirstName      string   `xml:"First_Name" dif:"text,required"`
	MiddleName     string   `xml:"Middle_Name" dif:"text"`
	LastName       string   `xml:"Last_Name" dif:"text,required"`
	Emails         []string `xml:"Email" dif:"plain"`
	Phones         []string `xml:"Phone" dif:"plain"`
	Faxes          []string `xml:"Fax" dif:"plain"`
	ContactAddress *Address `xml:"Contact_Address"`
}

// FullName joins the populated name parts.
func (p Person) FullName() string {
	name := p.FirstName
	for _, part := range []string{p.MiddleName, p.LastName} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

// Address is a postal contact address.
type Address struct {
	Lines           []string `xml:"Address" dif:"text"`
	City            string   `xml:"City" dif:"text"`
	ProvinceOrState string   `xml:"Province_or_State" dif:"text"`
	PostalCode      string   `xml:"Postal_Code" dif:"plain"`
	Country         string   `xml:"Country" dif:"text"`
}

// Parameter is a science keyword hierarchy (Parameters group).
type Parameter struct {
	Category         string `xml:"Category" dif:"plain"`
	Topic            string `xml:"Topic" dif:"plain"`
	Term             string `xml:"Term" dif:"plain"`
	VariableLevel1   string `xml:"Variable_Level_1" dif:"plain,required"`
	VariableLevel2   string `xml:"Variable_Level_2" dif:"plain"`
	VariableLevel3   string `xml:"Variable_Level_3" dif:"plain"`
	DetailedVariable string `xml:"Detailed_Variable" dif:"plain"`
}

// NamedPair is a short/long name pair (sensor, source, project, IDN node
// and data center names).
type NamedPair struct {
	ShortName string `xml:"Short_Name" dif:"plain"`
	LongName  string `xml:"Long_Name" dif:"text"`
}

// Name returns the long name, or the short name when no long name is set.
func (n NamedPair) Name() string {
	if n.LongName != "" {
		return n.LongName
	}
	return n.ShortName
}

// TemporalCoverage is a start/stop date range; either end may be open.
type TemporalCoverage struct {
	StartDate string `xml:"Start_Date" dif:"date"`
	StopDate  string `xml:"Stop_Date" dif:"date"`
}

// SpatialCoverage is a bounding box with optional altitude and depth ranges.
// The coordinates are kept as text since source documents do not always
// hold numbers there.
type SpatialCoverage struct {
	SouthernmostLatitude string `xml:"Southernmost_Latitude" dif:"numeric"`
	NorthernmostLatitude string `xml:"Northernmost_Latitude" dif:"numeric"`
	WesternmostLongitude string `xml:"Westernmost_Longitude" dif:"numeric"`
	EasternmostLongitude string `xml:"Easternmost_Longitude" dif:"numeric"`
	MinimumAltitude      string `xml:"Minimum_Altitude" dif:"plain"`
	MaximumAltitude      string `xml:"Maximum_Altitude" dif:"plain"`
	MinimumDepth         string `xml:"Minimum_Depth" dif:"plain"`
	MaximumDepth         string `xml:"Maximum_Depth" dif:"plain"`
}

// Location is a controlled location keyword hierarchy.
type Location struct {
	Category         string `xml:"Location_Category" dif:"plain,required"`
	Type             string `xml:"Location_Type" dif:"plain,required"`
	Subregion1       string `xml:"Location_Subregion_1" dif:"plain"`
	Subregion2       string `xml:"Location_Subregion_2" dif:"plain"`
	Subregion3       string `xml:"Location_Subregion_3" dif:"plain"`
	DetailedLocation string `xml:"Detailed_Location" dif:"text"`
}

// DataResolution describes spatial and temporal resolution.
type DataResolution struct {
	LatitudeResolution        string `xml:"Latitude_Resolution" dif:"numeric"`
	LongitudeResolution       string `xml:"Longitude_Resolution" dif:"numeric"`
	HorizontalResolutionRange string `xml:"Horizontal_Resolution_Range" dif:"plain"`
	VerticalResolution        string `xml:"Vertical_Resolution" dif:"plain"`
	VerticalResolutionRange   string `xml:"Vertical_Resolution_Range" dif:"plain"`
	TemporalResolution        string `xml:"Temporal_Resolution" dif:"plain"`
	TemporalResolutionRange   string `xml:"Temporal_Resolution_Range" dif:"plain"`
}

// DataCenter is the organization distributing the dataset.
type DataCenter struct {
	Name      *NamedPair `xml:"Data_Center_Name" dif:",anyof"`
	URL       string     `xml:"Data_Center_URL" dif:"plain"`
	Personnel []Person   `xml:"Personnel"`
}

// Summary holds the dataset abstract. Older documents put the text
// directly in the Summary element instead of an Abstract child.
type Summary struct {
	Abstract string `xml:"Abstract" dif:"text"`
	Text     string `xml:",chardata" dif:"-"`
}
