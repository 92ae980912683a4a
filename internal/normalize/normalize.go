// Package normalize turns a raw model reply into a complete Result.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/kevinmichaelchen/gepeto/internal/models"
)

// DefaultRequirements replaces an empty requirements field, whatever the
// reason it is empty.
const DefaultRequirements = "# default requirements\nflask\nnumpy\nrequests"

// Normalize makes one strict JSON parse of raw. The returned Result is
// always complete: fields the reply lacks are empty strings, requirements
// falls back to DefaultRequirements, and PinokioScript is raw verbatim.
// A non-nil error is a *models.ResponseFormatError and only describes why
// the structured fields are empty.
func Normalize(raw string) (models.Result, error) {
	res := models.Result{PinokioScript: raw}

	var fields map[string]json.RawMessage
	err := json.Unmarshal([]byte(raw), &fields)
	if err == nil && fields == nil {
		err = errors.New("top-level value is null")
	}
	if err != nil {
		res.Requirements = DefaultRequirements
		return res, &models.ResponseFormatError{Err: err}
	}

	res.InstallScript = text(fields["install_script"])
	res.StartScript = text(fields["start_script"])
	res.Description = text(fields["description"])
	res.Requirements = text(fields["requirements"])
	res.TerminalRegex = text(fields["terminal_regex"])

	if res.Requirements == "" {
		res.Requirements = DefaultRequirements
	}
	return res, nil
}

// text returns a JSON string as is, "" for a missing or null value, and the
// compact encoding of anything else (e.g. a list of start commands). Non-string
// values keep their original bytes, so numbers are not rounded.
func text(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if string(bytes.TrimSpace(v)) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return ""
	}
	return buf.String()
}
