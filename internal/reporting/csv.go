package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders risk rows as a CSV string.
func RenderCSV(rows []RiskRow) string {
	var sb strings.Builder

	sb.WriteString("machine_id,failure_type,likelihood,risk_level,time_to_fail,issues\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.4f,%s,%s,%s\n",
			r.MachineID,
			r.FailureType,
			r.Likelihood,
			r.RiskLevel,
			r.TimeToFail,
			csvField(r.Issues),
		))
	}

	return sb.String()
}

// csvField quotes a value containing commas. Issues are "; "-joined, but a
// custom tag could carry one.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
