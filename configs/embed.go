// Package configs provides embedded configuration templates for hybridrank.
//
// The template is embedded at build time with //go:embed so that
// `hybridrank config init` can write an annotated starter file in any
// distribution (go install, binary release) without shipping extra files.
//
// To modify the template, edit the .yaml file in this directory and
// rebuild. Keep it in sync with the defaults in internal/config.
package configs

import _ "embed"

// ProjectConfigTemplate is the annotated template written by
// `hybridrank config init`. Every value in it matches the hardcoded
// defaults, so a freshly written file changes nothing until edited.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
