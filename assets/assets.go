// Package assets holds static data shipped inside the bot binary.
package assets

import _ "embed"

// SurahsJSON is the catalog of all 114 surahs.
//
//go:embed data/surahs.json
var SurahsJSON []byte
