package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func renderJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(rep)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, rep *Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}

	return nil
}
