package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum size of the text snapshot in bytes.
// We limit this to prevent memory issues with very large pages.
const MaxSnapshotSize = 512 * 1024 // 512 KB

// MaxPageSize is the maximum size of raw page content to keep.
// Larger pages are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page represents a fetched web page.
//
// Design decision: We store both raw bytes and a string snapshot because:
//  1. The snapshot feeds text-based extraction (emails, names, addresses)
//  2. Raw bytes feed DOM-based extraction and link discovery
//  3. The hash allows deduplication and change detection
type Page struct {
	// URL is the absolute URL the page was fetched from.
	URL string `json:"url"`

	// Depth is the BFS depth at which the page was discovered.
	// The seed URL has depth 0.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the MIME type of the response, from Content-Type.
	ContentType string `json:"content_type"`

	// Title is the page title extracted from the <title> tag.
	Title string `json:"title,omitempty"`

	// Snapshot is the page body as a string, capped at MaxSnapshotSize.
	Snapshot string `json:"-"`

	// Raw contains the raw response body bytes, capped at MaxPageSize.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 hash of the raw content.
	Hash string `json:"hash,omitempty"`

	// FetchedAt records when the page was retrieved.
	FetchedAt time.Time `json:"fetched_at"`
}

// ComputeHash calculates and stores the SHA-256 hash of the raw content.
func (p *Page) ComputeHash() {
	sum := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(sum[:])
}

// TruncateSnapshot enforces the snapshot size limit.
func (p *Page) TruncateSnapshot() {
	if len(p.Snapshot) > MaxSnapshotSize {
		p.Snapshot = p.Snapshot[:MaxSnapshotSize]
	}
}

// TruncateRaw enforces the raw content size limit.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}

// IsHTML reports whether the page looks like an HTML document.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}
