// Package urlwatch provides a daily URL discovery and deduplication tool.
// It discovers new content URLs from configured sources (sitemaps with an
// optional homepage fallback), records everything it has seen in per-source
// stores, and reports only the delta.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, goquery/, viper/).
package urlwatch
