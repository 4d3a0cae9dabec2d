package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty       bool // If true, format with indentation
	IncludeSlabs bool // If false, per-jurisdiction bracket breakdowns are omitted
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	payload := *compSet
	if !jf.IncludeSlabs {
		payload.Results = make([]ComparisonResult, len(compSet.Results))
		for i, r := range compSet.Results {
			r.Result = nil
			payload.Results[i] = r
		}
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
