// Package config loads regram settings from YAML.
//
// A file names only the settings it changes; everything else keeps the
// value from Default. After decoding, the merged settings are checked
// against an embedded CUE schema (schema.cue), so range and enum errors
// report the offending field the same way whether the value came from a
// file or from command-line flags.
//
// Example file:
//
//	gram_length: 3
//	dialect: pcre
//	max_exact: 128
//	field: trigram
package config
