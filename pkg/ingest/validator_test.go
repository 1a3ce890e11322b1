package ingest

import (
	"reflect"
	"testing"

	"github.com/stratum-ai/stratum/pkg/common"
)

func TestValidateSegment(t *testing.T) {
	doc := common.Document{DocID: "doc-1", VersionID: "v2"}
	segment := common.Segment{ID: "page_4", PageNumbers: []int{4}, Text: "..."}

	entities := []common.Entity{
		{Type: "Company", Name: "Acme Corp"},
		{Type: "UnknownThing", Name: "mystery"},
		{Type: "Market", Name: ""},
		{Type: "Document", Name: "smuggled admin node"},
		{Type: "Capability", Name: "fleet routing", Properties: map[string]any{"maturity": "beta"}},
	}
	relationships := []common.Relationship{
		{FromName: "Acme Corp", Type: "REQUIRES", ToName: "fleet routing"},
		{FromName: "Acme Corp", Type: "", ToName: "fleet routing"},
		{FromName: "", Type: "REQUIRES", ToName: "fleet routing"},
		{FromName: "Acme Corp", Type: "TARGETS", ToName: "SMB shippers", ToType: "CustomerSegment"},
	}

	facts := validateSegment(doc, segment, "technology", 0.85, entities, relationships)

	if len(facts.Entities) != 2 {
		t.Fatalf("expected 2 surviving entities, got %d: %+v", len(facts.Entities), facts.Entities)
	}
	for _, e := range facts.Entities {
		if e.SourceDocID != "doc-1" || e.SourceVersionID != "v2" || e.Confidence != 0.85 {
			t.Errorf("missing provenance on %+v", e)
		}
		if !reflect.DeepEqual(e.SourcePages, []int{4}) {
			t.Errorf("source pages = %v, want [4]", e.SourcePages)
		}
	}

	if len(facts.Relationships) != 2 {
		t.Fatalf("expected 2 surviving relationships, got %d: %+v", len(facts.Relationships), facts.Relationships)
	}

	backfilled := facts.Relationships[0]
	if backfilled.FromType != "Company" || backfilled.ToType != "Capability" {
		t.Errorf("endpoint types not backfilled from co-segment entities: %+v", backfilled)
	}

	supplied := facts.Relationships[1]
	if supplied.ToType != "CustomerSegment" {
		t.Errorf("extractor-supplied endpoint type must be kept: %+v", supplied)
	}
	// "SMB shippers" was not extracted as an entity, so from is known but
	// to stays as supplied and from_type resolves via the local index.
	if supplied.FromType != "Company" {
		t.Errorf("from_type should backfill: %+v", supplied)
	}
}

func TestValidateSegmentEmptyInput(t *testing.T) {
	doc := common.Document{DocID: "doc-1", VersionID: "v1"}
	segment := common.Segment{ID: "page_1", PageNumbers: []int{1}}

	facts := validateSegment(doc, segment, "other", 0.5, nil, nil)
	if len(facts.Entities) != 0 || len(facts.Relationships) != 0 {
		t.Errorf("expected empty fact lists, got %+v", facts)
	}
	if facts.Category != "other" || facts.Confidence != 0.5 {
		t.Errorf("segment metadata not carried: %+v", facts)
	}
}
