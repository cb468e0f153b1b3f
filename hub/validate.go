package hub

import "fmt"

// MissingFieldError reports a required field that was absent from an
// otherwise well-formed document.
type MissingFieldError struct {
	Field   string // Field path (e.g., "Data_Set_Citation[0]/Dataset_Title")
	EntryID string // Entry_ID of the document, empty when it is the missing field
}

func (e *MissingFieldError) Error() string {
	if e.EntryID == "" {
		return fmt.Sprintf("missing required field %s", e.Field)
	}
	return fmt.Sprintf("%s: missing required field %s", e.EntryID, e.Field)
}
