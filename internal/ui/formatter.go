package ui

import (
	"fmt"
	"io"
	"strings"

	"probectl/internal/domain"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Formatter formats catalog listings, result tables and run summaries
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

func marker(enabled bool) string {
	if enabled {
		return color.GreenString("●")
	}
	return color.HiBlackString("○")
}

func priorityColor(p domain.Priority) func(format string, a ...interface{}) string {
	switch p {
	case domain.PriorityHigh:
		return color.RedString
	case domain.PriorityMedium:
		return color.YellowString
	default:
		return color.HiBlackString
	}
}

// PrintCatalog prints every suite as a tree, optionally with its cases.
// A case only runs when both the case and its suite are enabled.
func (f *Formatter) PrintCatalog(suites []domain.TestSuite, showCases bool) {
	total, runnable := 0, 0
	for _, s := range suites {
		total += len(s.Cases)
		for _, tc := range s.Cases {
			if s.Enabled && tc.Enabled {
				runnable++
			}
		}
	}
	fmt.Fprintln(f.out, color.GreenString("Found %d suite(s) with %d test case(s), %d enabled:\n", len(suites), total, runnable))

	for i, s := range suites {
		lastSuite := i == len(suites)-1
		branch, indent := "├── ", "│   "
		if lastSuite {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(f.out, "%s%s %s %s\n", branch, marker(s.Enabled), color.CyanString(s.ID), color.HiBlackString("(%s, %d cases)", s.Name, len(s.Cases)))

		if !showCases {
			continue
		}
		for j, tc := range s.Cases {
			caseBranch := "├── "
			if j == len(s.Cases)-1 {
				caseBranch = "└── "
			}
			fmt.Fprintf(f.out, "%s%s%s %s %s %s\n",
				indent, caseBranch,
				marker(s.Enabled && tc.Enabled),
				color.YellowString(tc.ID),
				tc.Name,
				priorityColor(tc.Priority)("[%s/%s]", tc.Category, tc.Priority),
			)
		}
		if !lastSuite {
			fmt.Fprintln(f.out, indent)
		}
	}
}

// PrintUnbound warns about cases that have no probe and would always fail
func (f *Formatter) PrintUnbound(cases []domain.TestCase) {
	if len(cases) == 0 {
		return
	}
	keys := make([]string, 0, len(cases))
	for _, tc := range cases {
		keys = append(keys, tc.Key())
	}
	fmt.Fprintln(f.out, color.YellowString("⚠ %d case(s) have no probe bound: %s", len(cases), strings.Join(keys, ", ")))
}

func statusText(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return color.GreenString("✓ success")
	case domain.StatusError:
		return color.RedString("✗ error")
	case domain.StatusRunning:
		return color.CyanString("… running")
	default:
		return string(s)
	}
}

// ResultsTable renders results, oldest first, as a table
func ResultsTable(results []domain.TestResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Test", "Status", "Duration", "Message"})
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		duration := "-"
		if r.Duration != nil {
			duration = fmt.Sprintf("%dms", r.Duration.Milliseconds())
		}
		t.AppendRow(table.Row{len(results) - i, r.Name, statusText(r.Status), duration, r.Message})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})
	return t.Render()
}

// PrintResults prints the results table
func (f *Formatter) PrintResults(results []domain.TestResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(f.out, ResultsTable(results))
}

// PrintSummary prints the run statistics and a per-category breakdown
func (f *Formatter) PrintSummary(summary domain.RunSummary, byCategory map[domain.Category][]domain.TestResult, reportPath string) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║               Probe Run Statistics            ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════╝"))

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"Selected", summary.Selected})
	t.AppendRow(table.Row{"Executed", summary.Total})
	t.AppendRow(table.Row{"Passed", color.GreenString("%d", summary.Passed)})
	t.AppendRow(table.Row{"Failed", color.RedString("%d", summary.Failed)})
	t.AppendRow(table.Row{"Duration", fmt.Sprintf("%.2fs", summary.Duration.Seconds())})
	if reportPath != "" {
		t.AppendRow(table.Row{"Report", reportPath})
	}
	fmt.Fprintln(f.out, t.Render())

	if len(byCategory) > 0 {
		ct := table.NewWriter()
		ct.SetStyle(table.StyleLight)
		ct.AppendHeader(table.Row{"Category", "Passed", "Failed"})
		for _, c := range domain.Categories {
			rs, ok := byCategory[c]
			if !ok {
				continue
			}
			passed := 0
			for _, r := range rs {
				if r.Status == domain.StatusSuccess {
					passed++
				}
			}
			ct.AppendRow(table.Row{c, passed, len(rs) - passed})
		}
		fmt.Fprintln(f.out, ct.Render())
	}

	fmt.Fprintln(f.out)
	switch {
	case summary.Stopped:
		fmt.Fprintln(f.out, color.YellowString("■ Run stopped after %d of %d test(s)", summary.Total, summary.Selected))
	case summary.Total == 0:
		fmt.Fprintln(f.out, color.YellowString("No tests were run"))
	case summary.AllPassed():
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
	default:
		fmt.Fprintln(f.out, color.RedString("✗ %d of %d test(s) failed", summary.Failed, summary.Total))
	}
}

// CategoryBreakdown projects the store's results onto each category
func CategoryBreakdown(byCategory func(prefix string) []domain.TestResult) map[domain.Category][]domain.TestResult {
	out := make(map[domain.Category][]domain.TestResult)
	for _, c := range domain.Categories {
		if rs := byCategory(string(c)); len(rs) > 0 {
			out[c] = rs
		}
	}
	return out
}
