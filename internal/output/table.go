// Package output renders service results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/matching"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *services.MatchOutcome:
		return matchOutcomeTable(w, v)
	case []services.CandidateStanding:
		return leaderboardTable(w, v)
	case []services.ProgramProgress:
		return healthCardTable(w, v)
	case []db.MemberRequest:
		return requestsTable(w, v)
	case []db.Event:
		return eventsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func matchOutcomeTable(w io.Writer, outcome *services.MatchOutcome) error {
	if len(outcome.Candidates) == 0 {
		fmt.Fprintln(w, "No candidates found.")
		return nil
	}

	fmt.Fprintf(w, "Ranked %ss for event %s:\n\n", outcome.Role, outcome.EventID)

	table := tablewriter.NewTable(w)
	table.Header("Rank", "Member", "Composite", "Quality", "Location", "Distribution", "Performance", "Engagement")
	for _, c := range outcome.Candidates {
		factors := make(map[string]float64, len(c.Breakdown))
		for _, f := range c.Breakdown {
			factors[f.Factor] = f.Score
		}
		table.Append(
			fmt.Sprintf("%d", c.Rank),
			c.Name,
			fmt.Sprintf("%.1f", c.Composite),
			string(c.Quality),
			fmt.Sprintf("%.1f", factors[matching.FactorLocation]),
			fmt.Sprintf("%.1f", factors[matching.FactorDistribution]),
			fmt.Sprintf("%.1f", factors[matching.FactorPerformance]),
			fmt.Sprintf("%.1f", factors[matching.FactorEngagement]),
		)
	}
	return table.Render()
}

func leaderboardTable(w io.Writer, standings []services.CandidateStanding) error {
	if len(standings) == 0 {
		fmt.Fprintln(w, "No evaluated candidates yet.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("Rank", "Candidate", "Mean Composite", "Evaluators")
	for _, s := range standings {
		table.Append(
			fmt.Sprintf("%d", s.Rank),
			s.Name,
			fmt.Sprintf("%.2f", s.MeanComposite),
			fmt.Sprintf("%d", s.Evaluators),
		)
	}
	return table.Render()
}

func healthCardTable(w io.Writer, progress []services.ProgramProgress) error {
	if len(progress) == 0 {
		fmt.Fprintln(w, "No outreach programs registered.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("Program", "Chapter", "Target", "Issued", "Pending", "% of Target")
	for _, p := range progress {
		table.Append(
			p.ProgramName,
			p.Chapter,
			fmt.Sprintf("%d", p.TargetCount),
			fmt.Sprintf("%d", p.Issued),
			fmt.Sprintf("%d", p.Pending),
			fmt.Sprintf("%.1f%%", p.PercentOfTarget),
		)
	}
	return table.Render()
}

func requestsTable(w io.Writer, requests []db.MemberRequest) error {
	if len(requests) == 0 {
		fmt.Fprintln(w, "No open requests.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("ID", "Member", "Type", "Status", "Created")
	for _, r := range requests {
		table.Append(
			r.ID,
			r.MemberID,
			r.Type,
			r.Status,
			r.CreatedAt.Format("2006-01-02"),
		)
	}
	return table.Render()
}

func eventsTable(w io.Writer, events []db.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("ID", "Title", "Category", "Venue", "Starts", "Status")
	for _, e := range events {
		table.Append(
			e.ID,
			e.Title,
			e.Category,
			e.Venue,
			e.StartTime.Format("2006-01-02 15:04"),
			e.Status,
		)
	}
	return table.Render()
}
