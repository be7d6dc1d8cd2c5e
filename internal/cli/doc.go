// Package cli implements the command-line interface for letaky.
//
// The root command scrapes the shop directory, keeps the brochures that are
// valid now, writes them to the listing file and prints a text or JSON report.
// With --new-only the report is limited to brochures missing from the previous
// listing. The parse-date subcommand runs the date-range resolver on its
// arguments, which helps when the directory starts using a new date layout.
package cli
