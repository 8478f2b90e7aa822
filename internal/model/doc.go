// Package model defines the core data structures shared across the
// leadscout crawler.
//
// This package contains the following main types:
//   - Page: a fetched web page with its text snapshot and metadata
//   - PersonalDataRecord: everything observed for a single email address
//   - ScrapeResult: the outcome of one crawl job against one seed URL
//   - BatchResult: aggregated outcomes of a multi-seed batch run
//
// The types here are plain data with small helper methods. They carry no
// network or database dependencies so every other package can depend on
// them without import cycles.
package model
