package domain

import "testing"

func TestEncoder_AppendIsIdempotent(t *testing.T) {
	enc := NewEncoder("machine_id")

	if code := enc.Append("M1"); code != 0 {
		t.Errorf("first Append = %d, want 0", code)
	}
	if code := enc.Append("M2"); code != 1 {
		t.Errorf("second Append = %d, want 1", code)
	}
	// Re-appending a known value keeps its code.
	if code := enc.Append("M1"); code != 0 {
		t.Errorf("repeat Append = %d, want 0", code)
	}
	if enc.Len() != 2 {
		t.Errorf("Len = %d, want 2", enc.Len())
	}
}

func TestEncoder_RestoreRoundTrip(t *testing.T) {
	enc := NewEncoder("status")
	enc.Append("ok")
	enc.Append("degraded")
	enc.Append("failed")

	restored := RestoreEncoder(enc.Column(), enc.Snapshot())

	if restored.Column() != "status" {
		t.Errorf("Column = %q, want status", restored.Column())
	}
	for i, value := range []string{"ok", "degraded", "failed"} {
		code, ok := restored.Code(value)
		if !ok || code != i {
			t.Errorf("Code(%s) = (%d, %v), want (%d, true)", value, code, ok, i)
		}
	}

	// New values continue the sequence.
	if code := restored.Append("unknown"); code != 3 {
		t.Errorf("Append after restore = %d, want 3", code)
	}
}

func TestEncoder_Decode(t *testing.T) {
	enc := NewEncoder("machine_id")
	enc.Append("M1")

	value, err := enc.Decode(0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if value != "M1" {
		t.Errorf("Decode(0) = %q, want M1", value)
	}

	if _, err := enc.Decode(5); err == nil {
		t.Error("expected error for unassigned code")
	}
	if _, err := enc.Decode(-1); err == nil {
		t.Error("expected error for negative code")
	}
}

func TestEncoder_SnapshotIsACopy(t *testing.T) {
	enc := NewEncoder("machine_id")
	enc.Append("M1")

	snap := enc.Snapshot()
	snap[0] = "mutated"

	value, err := enc.Decode(0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if value != "M1" {
		t.Error("encoder mutated through snapshot")
	}
}
