// Package extract implements the contact-data extraction engine.
//
// Every function in this package is pure: it operates on page text and a
// parsed DOM, touches no network and no mutable job state, and is safe to
// unit test in isolation. The crawler feeds each fetched page through an
// Extractor and merges the resulting Bundle into a job-level Aggregate
// via explicit set-union operations.
//
// Extraction is deliberately regex-heavy and heuristic. Recall matters
// more than precision for lead discovery, so candidates are gathered
// permissively and then filtered through per-class validation (email
// cleaning, name validation). Company extraction in particular may yield
// nothing for many pages; that is expected, not a defect.
package extract
