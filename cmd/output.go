package cmd

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// result is one entry of a batch command's output.
type result struct {
	Key   interface{} `json:"key"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func newResult(key interface{}, data interface{}, err error) result {
	r := result{Key: key}
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Data = data
	}
	return r
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
