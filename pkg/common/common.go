package common

// Document identifies one uploaded document at a specific version. A new
// upload of the same logical document gets a fresh VersionID while keeping
// the DocID, so graph facts can be traced to the exact revision they came
// from.
type Document struct {
	DocID     string `json:"doc_id"`
	VersionID string `json:"version_id"`
	Filename  string `json:"filename"`
	Hash      string `json:"hash,omitempty"`
}

// Segment is a contiguous unit of document text, one per extracted page.
// Segments are the provenance anchor for everything downstream: every
// entity, relationship and vector point carries its segment's page numbers.
type Segment struct {
	ID          string `json:"segment_id"`
	PageNumbers []int  `json:"page_numbers"`
	Text        string `json:"text"`
}

// Entity is one extracted node candidate. Type is constrained to the graph
// schema; Name keeps the surface form from the text. Provenance fields are
// attached during validation.
type Entity struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`

	SourcePages     []int   `json:"source_page"`
	Confidence      float64 `json:"confidence"`
	SourceDocID     string  `json:"source_doc_id"`
	SourceVersionID string  `json:"source_version_id"`
}

// Relationship is one extracted edge candidate between two named entities.
// FromType and ToType are filled in during validation from the entities
// extracted out of the same segment.
type Relationship struct {
	FromName string `json:"from"`
	FromType string `json:"from_type"`
	ToName   string `json:"to"`
	ToType   string `json:"to_type"`
	Type     string `json:"type"`

	SourcePages     []int   `json:"source_page"`
	Confidence      float64 `json:"confidence"`
	SourceDocID     string  `json:"source_doc_id"`
	SourceVersionID string  `json:"source_version_id"`
}

// SegmentFacts is the fully processed form of one segment: its category,
// classification confidence, and the validated entities and relationships
// extracted from it. A segment whose AI calls failed still appears here,
// with fallback category and empty fact lists.
type SegmentFacts struct {
	Segment       Segment        `json:"segment"`
	Category      string         `json:"category"`
	Confidence    float64        `json:"confidence"`
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}
