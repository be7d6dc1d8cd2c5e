// Package brochure provides the brochure record type and the date-range logic
// used to decide which brochures are currently valid.
//
// A Resolver turns loosely formatted validity text such as
// "17.03.2025 - 22.03.2025", "17.03 - 22.03.2025" or
// "March 17, 2025 - March 22, 2025" into a DateRange. IsActive then decides
// whether that range covers a given reference instant. Both are pure and safe
// for concurrent use; the caller always supplies "now".
package brochure
