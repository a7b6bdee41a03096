// Package config provides the configuration of imgshield: the analysis
// endpoint and its resilience settings, redaction defaults, report output
// and the location of the score history.
//
// Values come from three layers, later ones winning: NewConfig defaults,
// the optional .imgshield YAML file, and command-line flags.
package config
