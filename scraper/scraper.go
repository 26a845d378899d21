// Package scraper extracts class-meeting records from HTML schedule tables.
package scraper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"classroom-scout/catalog"
	"classroom-scout/config"
)

// Logical cell positions within a section row. All other cells are
// ignored but must be present for the row to be accepted.
const (
	crnIndex      = 1
	subjectIndex  = 2
	courseIndex   = 3
	sectionIndex  = 4
	typeIndex     = 5
	daysIndex     = 8
	timeIndex     = 9
	dateIndex     = 17
	locationIndex = 18
	fieldCount    = 20
)

// sectionTableSummary marks the layout tables that carry section rows.
const sectionTableSummary = "This layout table is used to present the sections found"

// Build reads every HTML source file in the configured input folder,
// extracts section rows, and replaces the record store wholesale with the
// newly built catalog. It fails only when no input files are found or the
// store cannot be written; malformed rows are skipped, never fatal.
func Build(cfg *config.Config) (*catalog.Catalog, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("error reading input folder: %v", err)
	}

	var rows [][]string
	parsed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".htm")) {
			continue
		}
		file, err := os.Open(filepath.Join(cfg.InputDir, name))
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %v", name, err)
		}
		doc, err := goquery.NewDocumentFromReader(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %v", name, err)
		}
		rows = append(rows, sectionRows(doc)...)
		parsed++
	}
	if parsed == 0 {
		return nil, errors.New("No input files were found")
	}
	fmt.Printf("Parsed %d input files.\n", parsed)

	cat, orphans := buildCatalog(rows, cfg.Year)
	if orphans > 0 {
		fmt.Printf("Skipped %d meeting rows with no open section.\n", orphans)
	}

	if err := cat.Save(cfg.DatabaseFile); err != nil {
		return nil, fmt.Errorf("error writing database: %v", err)
	}
	return cat, nil
}

// sectionRows collects the rows of every section layout table in the
// document as slices of trimmed cell text.
func sectionRows(doc *goquery.Document) [][]string {
	var rows [][]string
	selector := fmt.Sprintf("table.datadisplaytable[summary=%q]", sectionTableSummary)
	doc.Find(selector).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			rows = append(rows, cells)
		})
	})
	return rows
}

// buildCatalog turns raw rows into the course → module → meeting
// hierarchy. A row with a non-empty CRN cell opens a new module; a row
// with an empty CRN cell appends its meeting to the open module. The
// second return value counts continuation rows that arrived before any
// module was opened (reported by the caller, never a crash).
func buildCatalog(rows [][]string, year int) (*catalog.Catalog, int) {
	cat := catalog.New()
	var current *catalog.Module
	orphans := 0

	for _, cells := range rows {
		// Skip incomplete rows, header rows and not-yet-scheduled rows.
		if len(cells) != fieldCount ||
			cells[crnIndex] == "CRN" ||
			cells[daysIndex] == "TBA" ||
			cells[timeIndex] == "TBA" ||
			cells[dateIndex] == "TBA" {
			continue
		}

		meeting, ok := parseMeeting(cells, year)
		if !ok {
			continue
		}

		if cells[crnIndex] != "" {
			code := cells[subjectIndex] + cells[courseIndex]
			if code == "" {
				continue
			}
			current = &catalog.Module{
				CRN:     cells[crnIndex],
				Section: cells[sectionIndex],
				Type:    cells[typeIndex],
			}
			cat.AddModule(code, current)
		} else if current == nil {
			orphans++
			continue
		}
		current.Meetings = append(current.Meetings, meeting)
	}

	return cat, orphans
}

// parseMeeting derives a meeting from an accepted row. The time and date
// cells carry "start-end" ranges; the date parts hold only month/day and
// are completed with the configured academic year as a 2-digit suffix.
func parseMeeting(cells []string, year int) (catalog.Meeting, bool) {
	startTime, endTime, ok := strings.Cut(cells[timeIndex], "-")
	if !ok {
		return catalog.Meeting{}, false
	}
	startDate, endDate, ok := strings.Cut(cells[dateIndex], "-")
	if !ok {
		return catalog.Meeting{}, false
	}

	yy := fmt.Sprintf("%d", year-2000)
	days := make([]string, 0, len(cells[daysIndex]))
	for _, r := range cells[daysIndex] {
		days = append(days, string(r))
	}

	return catalog.Meeting{
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		StartDate: startDate + "/" + yy,
		EndDate:   endDate + "/" + yy,
		Location:  cells[locationIndex],
	}, true
}
