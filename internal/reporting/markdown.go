package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Machine Risk Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Machines: %d\n\n", r.MachineCount))

	sb.WriteString("## Training Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Files Processed | %d |\n", r.FilesCount))
	sb.WriteString(fmt.Sprintf("| Total Samples | %d |\n", r.TotalSamples))
	if !r.LatestTimestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("| Latest Reading | %s |\n", r.LatestTimestamp.Format(time.RFC3339)))
	} else {
		sb.WriteString("| Latest Reading | - |\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Risk Assessments\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Machine | Failure Type | Likelihood | Risk | Time To Fail | Issues |\n")
		sb.WriteString("|---------|--------------|------------|------|--------------|--------|\n")
		for _, row := range r.Rows {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %s | %s | %s |\n",
				row.MachineID, row.FailureType, row.Likelihood,
				row.RiskLevel, row.TimeToFail, row.Issues))
		}
	} else {
		sb.WriteString("No machine states available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
