// Package scraper fetches USMS top-ten result listings and extracts the raw
// record rows for one team.
//
// The scraper issues one GET per (course, year) combination against the
// result-listing endpoint, parses the <pre> results block, and keeps only
// rows belonging to the configured club. Fetches run strictly sequentially
// with a fixed politeness delay between them; a failed fetch or an
// unparseable page is logged and skipped without aborting the scrape.
package scraper
