// Package config loads minefield settings.
//
// Difficulty presets and the config schema live in an embedded CUE file.
// User config files are YAML; they are decoded strictly (unknown keys are
// errors) and then unified with the CUE #Config schema, so the same
// constraints guard presets and custom boards.
//
// Example config:
//
//	difficulty: custom
//	custom:
//	  rows: 20
//	  cols: 24
//	  mines: 80
//	database: games.db
//	seed: 42
package config
