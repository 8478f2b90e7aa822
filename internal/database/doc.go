// Package database persists crawl history and batch results in SQLite.
//
// The store serves two needs: deduplicating recently crawled URLs across
// runs, and keeping past batch results queryable from the CLI without
// re-crawling.
package database
