// Package crawler implements the breadth-first site spider: fetching
// pages over HTTP, parsing out internal links, and feeding each page to
// the contact extractor while honoring depth, page, and politeness
// limits.
package crawler
