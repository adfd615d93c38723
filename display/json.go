package display

import (
	"encoding/json"
	"os"
	"strings"
)

// CompactEnvVar switches JSON output to a single line, for piping into jq -c style tools
const CompactEnvVar = "MANGAGRAPH_JSON_COMPACT"

// MarshalJSON marshals JSON with pretty formatting unless compact output is requested
func MarshalJSON(v interface{}) ([]byte, error) {
	if compact := os.Getenv(CompactEnvVar); compact != "" && !strings.EqualFold(compact, "false") {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
