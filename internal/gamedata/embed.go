// Package gamedata provides the embedded ability, character and AI data and
// the ability catalog built from it.
package gamedata

import "embed"

// dataFS embeds all JSON and YAML files from this directory at build time.
//
//go:embed *.json *.yaml
var dataFS embed.FS
