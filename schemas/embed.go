// Package schemas embeds the JSON Schema documents for connexion's persisted files.
package schemas

import _ "embed"

// Config is the schema for the connexion JSON configuration file.
//
//go:embed config.schema.json
var Config string

// Queue is the schema for the candidate queue document.
//
//go:embed queue.schema.json
var Queue string
