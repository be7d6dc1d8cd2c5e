// Package config loads letaky settings.
//
// Settings start from Default(), are overlaid by an optional TOML file and
// finally by command-line flags. The scrape core does not read configuration;
// only the fetching shell and the CLI do.
package config
