package core

import "testing"

func TestRedactSensitiveMapPreservesTraceabilityMetadata(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"trace_id":          "trace_1",
		"account_id":        int64(42),
		"report_request_id": int64(7),
		"access_token":      "secret-token",
		"authorization":     "Bearer secret-token",
		"nested":            map[string]any{"client_secret": "shh", "trace_id": "trace_nested"},
		"events":            []any{map[string]any{"api_key": "key_1"}},
	})

	if redacted["trace_id"] != "trace_1" || redacted["account_id"] != int64(42) {
		t.Fatalf("expected traceability keys to remain visible, got %#v", redacted)
	}
	if redacted["access_token"] != RedactedValue || redacted["authorization"] != RedactedValue {
		t.Fatalf("expected token material to be redacted, got %#v", redacted)
	}
	nested, ok := redacted["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested redacted map")
	}
	if nested["client_secret"] != RedactedValue || nested["trace_id"] != "trace_nested" {
		t.Fatalf("unexpected nested redaction %#v", nested)
	}
	events := redacted["events"].([]any)
	if events[0].(map[string]any)["api_key"] != RedactedValue {
		t.Fatalf("expected api_key inside slice to be redacted")
	}
}
