package hub

// Collection is the ordered sequence of records assembled from a batch of
// source documents. It does no deduplication or validation.
//
// A Collection is not safe for concurrent use; callers appending from
// several goroutines must serialize the calls.
type Collection struct {
	records []*Record
}

// NewCollection creates an empty Collection.
func NewCollection() *Collection {
	return &Collection{records: make([]*Record, 0)}
}

// Append adds a record to the end of the collection.
func (c *Collection) Append(r *Record) {
	c.records = append(c.records, r)
}

// All returns the records in append order.
func (c *Collection) All() []*Record {
	return c.records
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}
