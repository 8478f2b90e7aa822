// Package report renders batch crawl results as CSV, JSON, or Markdown.
package report
