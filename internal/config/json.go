package config

import (
	"encoding/json"
	"os"

	"github.com/docusafe/docusafe/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling; known fields
// are copied into the runtime Config afterwards so absent keys keep their
// defaults.
type JsonConfig struct {
	DataDir      *string `json:"data_dir"`
	DatabaseFile *string `json:"database_file"`
	LogLevel     *string `json:"log_level"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is given the function is a no-op; a
// missing or malformed file panics, since a config the user asked for but
// cannot be honored should stop startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.DatabaseFile != nil {
		cfg.DatabaseFile = *jc.DatabaseFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
