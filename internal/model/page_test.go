package model

import (
	"strings"
	"testing"
)

func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	p1 := &Page{Raw: []byte("<html><body>hello</body></html>")}
	p2 := &Page{Raw: []byte("<html><body>hello</body></html>")}
	p3 := &Page{Raw: []byte("<html><body>other</body></html>")}

	p1.ComputeHash()
	p2.ComputeHash()
	p3.ComputeHash()

	if p1.Hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if p1.Hash != p2.Hash {
		t.Error("identical content should hash identically")
	}
	if p1.Hash == p3.Hash {
		t.Error("different content should hash differently")
	}
}

func TestPageTruncate(t *testing.T) {
	t.Parallel()

	p := &Page{
		Snapshot: strings.Repeat("a", MaxSnapshotSize+100),
		Raw:      make([]byte, MaxPageSize+100),
	}
	p.TruncateSnapshot()
	p.TruncateRaw()

	if len(p.Snapshot) != MaxSnapshotSize {
		t.Errorf("expected snapshot capped at %d, got %d", MaxSnapshotSize, len(p.Snapshot))
	}
	if len(p.Raw) != MaxPageSize {
		t.Errorf("expected raw capped at %d, got %d", MaxPageSize, len(p.Raw))
	}
}

func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"Text/HTML", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		p := &Page{ContentType: tt.contentType}
		if got := p.IsHTML(); got != tt.want {
			t.Errorf("IsHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
