package output

import (
	"encoding/json"
	"time"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
)

// JSONFormatter renders the report as JSON
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

type jsonReport struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Calculation *domain.Calculation    `json:"calculation"`
	Comparison  *compare.ComparisonSet `json:"comparison,omitempty"`
	Assumptions []string               `json:"assumptions"`
}

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	if err := report.validate(); err != nil {
		return nil, err
	}
	payload := jsonReport{
		GeneratedAt: report.GeneratedAt,
		Calculation: report.Calculation,
		Comparison:  report.Comparison,
		Assumptions: DefaultAssumptions,
	}
	if j.Pretty {
		return json.MarshalIndent(payload, "", "  ")
	}
	return json.Marshal(payload)
}
