// Package pipeline orchestrates crawl jobs: a step-based pipeline runs
// one seed through crawl, optional AI enrichment, and history
// persistence, and a batch processor fans the pipeline out over up to
// ten seeds while keeping submission order in the results.
package pipeline
