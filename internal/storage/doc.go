// Package storage provides JSON persistence for brochure listings.
//
// A listing is written as one indented JSON array (letaky.json by default).
// The previous listing is read back at the start of a run so that brochures
// first seen in this run can be reported separately.
package storage
