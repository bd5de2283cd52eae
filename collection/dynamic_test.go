package collection

import (
	"testing"
	"time"
)

// TestDynamicClone tests that Clone produces an independent map
func TestDynamicClone(t *testing.T) {
	orig := Dynamic{"id": "1", "title": "original"}
	copied := orig.Clone()

	copied["title"] = "changed"
	if orig["title"] != "original" {
		t.Errorf("Clone should not share storage, original title became %q", orig["title"])
	}
}

// TestDynamicDescriptorID tests identity extraction across wire shapes
func TestDynamicDescriptorID(t *testing.T) {
	desc := DynamicDescriptor("id", "", "")

	tests := []struct {
		name   string
		record Dynamic
		want   string
	}{
		{"string id", Dynamic{"id": "abc"}, "abc"},
		{"json number id", Dynamic{"id": float64(42)}, "42"},
		{"fractional number id", Dynamic{"id": 42.5}, "42.5"},
		{"int id", Dynamic{"id": 7}, "7"},
		{"missing id", Dynamic{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := desc.ID(tt.record); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestDynamicDescriptorWithID tests that WithID does not mutate its input
func TestDynamicDescriptorWithID(t *testing.T) {
	desc := DynamicDescriptor("id", "", "")

	orig := Dynamic{"id": "old"}
	updated := desc.WithID(orig, "new")

	if orig["id"] != "old" {
		t.Errorf("WithID mutated its input, id became %v", orig["id"])
	}
	if updated["id"] != "new" {
		t.Errorf("WithID result id = %v, want new", updated["id"])
	}
}

// TestDynamicDescriptorVersion tests version extraction
func TestDynamicDescriptorVersion(t *testing.T) {
	desc := DynamicDescriptor("id", "", "version")

	if v, ok := desc.Version(Dynamic{"version": float64(3)}); !ok || v != 3 {
		t.Errorf("Version from json number = (%d, %v), want (3, true)", v, ok)
	}
	if v, ok := desc.Version(Dynamic{"version": "12"}); !ok || v != 12 {
		t.Errorf("Version from numeric string = (%d, %v), want (12, true)", v, ok)
	}
	if _, ok := desc.Version(Dynamic{"version": "not-a-number"}); ok {
		t.Error("Non-numeric version string should not parse")
	}
	if _, ok := desc.Version(Dynamic{}); ok {
		t.Error("Missing version should report absent")
	}
}

// TestDynamicDescriptorModifiedAt tests timestamp parsing across layouts
func TestDynamicDescriptorModifiedAt(t *testing.T) {
	desc := DynamicDescriptor("id", "updatedAt", "")

	tests := []struct {
		name   string
		record Dynamic
		want   time.Time
	}{
		{
			"rfc3339",
			Dynamic{"updatedAt": "2026-03-01T10:30:00Z"},
			time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			"date time",
			Dynamic{"updatedAt": "2026-03-01 10:30:00"},
			time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			"date only",
			Dynamic{"updatedAt": "2026-03-01"},
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"unix millis",
			Dynamic{"updatedAt": float64(1767225600000)},
			time.UnixMilli(1767225600000).UTC(),
		},
		{"garbage", Dynamic{"updatedAt": "soon"}, time.Time{}},
		{"missing", Dynamic{}, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := desc.ModifiedAt(tt.record); !got.Equal(tt.want) {
				t.Errorf("ModifiedAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDynamicDescriptorWithModifiedAt tests timestamp stamping
func TestDynamicDescriptorWithModifiedAt(t *testing.T) {
	desc := DynamicDescriptor("id", "updatedAt", "")
	when := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	orig := Dynamic{"id": "1"}
	stamped := desc.WithModifiedAt(orig, when)

	if _, ok := orig["updatedAt"]; ok {
		t.Error("WithModifiedAt mutated its input")
	}
	if got := desc.ModifiedAt(stamped); !got.Equal(when) {
		t.Errorf("Stamped timestamp round-trips to %v, want %v", got, when)
	}
}

// TestDynamicDescriptorOfflineCreated tests the offline flag round-trip
func TestDynamicDescriptorOfflineCreated(t *testing.T) {
	desc := DynamicDescriptor("id", "", "")

	rec := desc.WithOfflineCreated(Dynamic{"id": "1"}, true)
	if !desc.OfflineCreated(rec) {
		t.Error("Expected flag to be set")
	}

	cleared := desc.WithOfflineCreated(rec, false)
	if desc.OfflineCreated(cleared) {
		t.Error("Expected flag to be cleared")
	}
	if _, ok := cleared[OfflineCreatedAttribute]; ok {
		t.Error("Clearing should remove the attribute entirely")
	}
}

// TestDynamicDescriptorUnconfigured tests that empty attribute names leave
// capabilities nil
func TestDynamicDescriptorUnconfigured(t *testing.T) {
	desc := DynamicDescriptor("", "", "")

	if desc.Configured() {
		t.Error("Empty id attribute should leave the descriptor unconfigured")
	}
	if desc.Ordered() {
		t.Error("Empty marker attributes should leave the descriptor unordered")
	}
}
