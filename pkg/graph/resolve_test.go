package graph

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple lowercase", "acme", "acme"},
		{"uppercase", "ACME CORP", "acme"},
		{"corporate suffix with dot", "Acme Corp.", "acme"},
		{"corporation suffix", "ACME Corporation", "acme"},
		{"gmbh suffix", "Müller GmbH", "mller"},
		{"limited suffix", "Northstar Limited", "northstar"},
		{"sa dotted suffix", "Telco S.A.", "telco"},
		{"punctuation stripped", "logistics-market!", "logisticsmarket"},
		{"whitespace collapsed", "  fleet   routing  ", "fleet routing"},
		{"empty", "", ""},
		{"suffix only", "Inc.", ""},
		{"keeps digits", "Route 66 Logistics", "route 66 logistics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameDeterminism(t *testing.T) {
	variants := []string{"Acme Corp.", "ACME CORP", "acme corp"}
	for _, v := range variants {
		if got := NormalizeName(v); got != "acme" {
			t.Errorf("NormalizeName(%q) = %q, want %q", v, got, "acme")
		}
	}
}

func TestExtractableNodeTypesExcludesAdmin(t *testing.T) {
	for _, typ := range ExtractableNodeTypes() {
		if typ == "Document" || typ == "DocumentVersion" {
			t.Errorf("administrative type %s leaked into extractable set", typ)
		}
	}
	if !IsExtractableNodeType("Company") {
		t.Error("Company should be extractable")
	}
	if IsExtractableNodeType("Document") {
		t.Error("Document should not be extractable")
	}
}
