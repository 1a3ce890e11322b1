package ai

import (
	"errors"
	"testing"
)

type extractPayload struct {
	Entities []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	} `json:"entities"`
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, got extractPayload)
	}{
		{
			name:  "standard json",
			input: `{"entities": [{"type": "Company", "name": "Acme Corp"}]}`,
			check: func(t *testing.T, got extractPayload) {
				if len(got.Entities) != 1 || got.Entities[0].Name != "Acme Corp" {
					t.Fatalf("unexpected payload: %+v", got)
				}
			},
		},
		{
			name:  "double encoded",
			input: `"{\"entities\": [{\"type\": \"Market\", \"name\": \"logistics\"}]}"`,
			check: func(t *testing.T, got extractPayload) {
				if len(got.Entities) != 1 || got.Entities[0].Type != "Market" {
					t.Fatalf("unexpected payload: %+v", got)
				}
			},
		},
		{
			name:  "malformed but repairable",
			input: `{entities: [{type: "Risk", name: "churn"}]}`,
			check: func(t *testing.T, got extractPayload) {
				if len(got.Entities) != 1 || got.Entities[0].Name != "churn" {
					t.Fatalf("unexpected payload: %+v", got)
				}
			},
		},
		{
			name:  "duplicate leading brace",
			input: `{ {"entities": []}`,
			check: func(t *testing.T, got extractPayload) {
				if len(got.Entities) != 0 {
					t.Fatalf("unexpected payload: %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got extractPayload
			err := UnmarshalFlexible(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("openai: 429 rate limit exceeded"), true},
		{"timeout", errors.New("request timed out"), true},
		{"overloaded", errors.New("anthropic: overloaded_error"), true},
		{"server error", errors.New("upstream returned 503"), true},
		{"auth failure", errors.New("invalid api key"), false},
		{"bad request", errors.New("schema validation rejected the request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.err); got != tt.want {
				t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
