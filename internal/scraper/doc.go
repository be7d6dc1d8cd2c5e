// Package scraper fetches the shop directory and shop pages and extracts
// currently valid brochures from them.
//
// The directory page lists shops in the "#left-category-shops" sidebar. Each
// shop page carries ".brochure-thumb" blocks with a title, a validity text and
// a thumbnail. Validity text is resolved with brochure.Resolver and blocks that
// are not active at the run's reference time are dropped. Requests to one host
// are spaced by a politeness delay and transient failures are retried.
package scraper
