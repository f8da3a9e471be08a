package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/harvest"
	"github.com/pfrederiksen/swim-archive/internal/result"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains the records of one search, personal-best or scrape run
type OutputResult struct {
	CheckedAt     time.Time       `json:"checked_at"`
	Athlete       string          `json:"athlete,omitempty"`
	Club          string          `json:"club,omitempty"`
	Source        string          `json:"source,omitempty"`
	PersonalBests bool            `json:"personal_bests,omitempty"`
	Records       []result.Record `json:"results"`
	Count         int             `json:"count"`
}

// HarvestResult contains the outcome of a harvest run
type HarvestResult struct {
	HarvestedAt     time.Time             `json:"harvested_at"`
	CSVPath         string                `json:"csv_path"`
	Count           int                   `json:"count"`
	Competitions    []harvest.Competition `json:"competitions"`
	NewCompetitions []harvest.Competition `json:"new_competitions"`
	NewCount        int                   `json:"new_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, res *OutputResult, format OutputFormat, verbose bool) error {
	if res.Records == nil {
		res.Records = []result.Record{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText:
		return writeText(w, res, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteHarvest writes a harvest summary in the specified format
func WriteHarvest(w io.Writer, res *HarvestResult, format OutputFormat, verbose bool) error {
	if res.NewCompetitions == nil {
		res.NewCompetitions = []harvest.Competition{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText:
		return writeHarvestText(w, res, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs records as human-readable text
func writeText(w io.Writer, res *OutputResult, verbose bool) error {
	label := "results"
	if res.PersonalBests {
		label = "personal bests"
	}

	if res.Count == 0 {
		fmt.Fprintf(w, "No %s found.\n", label)
		return nil
	}

	for _, rec := range res.Records {
		fmt.Fprintf(w, "%s: %s %s", rec.Name, rec.Event, rec.Time)
		if res.PersonalBests && rec.Course != "" {
			fmt.Fprintf(w, " (%s)", rec.Course)
		}
		if rec.Club != "" {
			fmt.Fprintf(w, " [%s]", rec.Club)
		}
		if rec.Date != "" {
			fmt.Fprintf(w, " %s", rec.Date)
		}
		fmt.Fprintln(w)

		if verbose {
			fmt.Fprintf(w, "     Distance: %s  Stroke: %s  Course: %s\n",
				orDash(rec.Distance), orDash(string(rec.Stroke)), orDash(string(rec.Course)))
			if rec.Splits != "" {
				fmt.Fprintf(w, "     Splits: %s\n", rec.Splits)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d %s\n", res.Count, label)
	return nil
}

// writeHarvestText outputs a harvest summary as human-readable text
func writeHarvestText(w io.Writer, res *HarvestResult, verbose bool) error {
	fmt.Fprintf(w, "Saved %d competitions to %s\n", res.Count, res.CSVPath)

	if verbose {
		for _, c := range res.Competitions {
			fmt.Fprintf(w, "  %s: %s\n       %s\n", c.Year, c.Name, c.DownloadLink)
		}
	}

	if res.NewCount == 0 {
		fmt.Fprintln(w, "No new competitions found.")
		return nil
	}

	fmt.Fprintf(w, "\n%d new:\n", res.NewCount)
	for _, c := range res.NewCompetitions {
		fmt.Fprintf(w, "  NEW (%s): %s\n", c.Year, c.Name)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
