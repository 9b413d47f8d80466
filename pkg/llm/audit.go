package llm

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Audit writes a request audit record to path before a call is made: the
// endpoint URL, the headers as sent (including the bearer credential, which
// the record exists to preserve for replay), and the full request payload.
// One file per model, overwritten on each run.
func (c *Client) Audit(path, prompt string) error {
	headers, err := json.Marshal([]string{
		"Content-Type: application/json",
		"Authorization: Bearer " + c.cfg.APIKey,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal audit headers")
	}

	payload, err := json.MarshalIndent(c.payload(prompt), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal audit payload")
	}

	record := "URL: " + c.cfg.APIURL + "\n" +
		"Headers: " + string(headers) + "\n" +
		"Payload: " + string(payload) + "\n"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create audit log directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write audit log: %s", path)
	}

	return nil
}
