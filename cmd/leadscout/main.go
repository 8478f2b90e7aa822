// Package main provides the entry point for the LeadScout CLI.
//
// LeadScout crawls business websites and extracts contact data:
// email addresses plus the names, addresses, social profiles, and
// job titles found near them.
//
// Usage:
//
//	leadscout scrape <url>
//	leadscout scrape --list <file>
//
// See --help for all available options.
package main

// main is the entry point for LeadScout.
func main() {
	Execute()
}
