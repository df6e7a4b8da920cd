package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"active", StatusActive},
		{"Active", StatusActive},
		{"  deprecated  ", StatusDeprecated},
		{"maintenance", StatusMaintenance},
		{"outdated", StatusOutdated},
		{"inactive", StatusInactive},
		{"deleted", StatusDeleted},
		{"", StatusUnknown},
		{"experimental", StatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRankWeight_Ordering(t *testing.T) {
	// Active must outrank every other status, and deleted must sink to zero.
	weights := []struct {
		status Status
		weight float64
	}{
		{StatusActive, 1.00},
		{StatusMaintenance, 0.95},
		{StatusUnknown, 0.90},
		{StatusDeprecated, 0.85},
		{StatusOutdated, 0.85},
		{StatusInactive, 0.70},
		{StatusDeleted, 0},
	}

	for _, w := range weights {
		if got := w.status.RankWeight(); got != w.weight {
			t.Errorf("%s.RankWeight() = %v, want %v", w.status, got, w.weight)
		}
	}
}

func TestLatestWeight(t *testing.T) {
	if LatestWeight(true) != 1.00 {
		t.Error("latest entries must not be penalized")
	}
	if LatestWeight(false) != 0.90 {
		t.Errorf("LatestWeight(false) = %v, want 0.90", LatestWeight(false))
	}
}

func TestSearchText(t *testing.T) {
	if got := SearchText("srv", "does things"); got != "srv does things" {
		t.Errorf("SearchText = %q", got)
	}
	// The separator is kept even with an empty side so the derivation
	// is stable.
	if got := SearchText("srv", ""); got != "srv " {
		t.Errorf("SearchText with empty description = %q", got)
	}
}

func TestServer_Tombstone(t *testing.T) {
	srv := New("srv", "desc", "1.0.0").WithEmbedding([]float64{1, 2, 3})

	dead := srv.Tombstone()
	if !dead.IsDeleted() {
		t.Error("tombstoned server must report deleted")
	}
	if dead.HasEmbedding() {
		t.Error("tombstoning must clear the embedding")
	}
	if srv.IsDeleted() {
		t.Error("Tombstone must not mutate the receiver")
	}
}

func TestServer_ContentEquals(t *testing.T) {
	base := New("srv", "desc", "1.0.0").
		WithRepository(json.RawMessage(`{"url":"https://example.com"}`))

	same := base.
		WithID(42).
		WithTimestamps(time.Now(), time.Now())
	if !base.ContentEquals(same) {
		t.Error("identity and timestamps must not affect content equality")
	}

	if base.ContentEquals(base.WithStatus(StatusDeprecated)) {
		t.Error("status change must break content equality")
	}
	if base.ContentEquals(base.WithIsLatest(false)) {
		t.Error("latest flag change must break content equality")
	}
	if base.ContentEquals(base.WithRepository(json.RawMessage(`{}`))) {
		t.Error("repository change must break content equality")
	}
	if !base.ContentEquals(base.WithEmbedding([]float64{1})) {
		t.Error("embedding is not part of content equality")
	}
}

func TestServer_EmbeddingDefensiveCopy(t *testing.T) {
	vec := []float64{1, 2, 3}
	srv := New("srv", "desc", "1.0.0").WithEmbedding(vec)

	vec[0] = 99
	if srv.Embedding()[0] != 1 {
		t.Error("WithEmbedding must copy its input")
	}

	out := srv.Embedding()
	out[1] = 99
	if srv.Embedding()[1] != 2 {
		t.Error("Embedding must return a copy")
	}
}
