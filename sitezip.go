// Package sitezip turns a single website into a downloadable archive of
// readable documents. Starting from a seed URL it crawls same-site links up
// to a depth bound, extracts the human-visible text of each rendered page,
// renders one document per page, and packages the documents into a zip.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, markdown/).
package sitezip
