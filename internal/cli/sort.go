package cli

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/swim-archive/internal/result"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByEvent SortOrder = "event"
	SortByTime  SortOrder = "time"
	SortByName  SortOrder = "name"
)

// sortRecords sorts records in place. An empty order keeps archive order.
func sortRecords(records []result.Record, order SortOrder) {
	switch order {
	case SortByEvent:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i], records[j]
			if da, db := distanceMeters(a.Distance), distanceMeters(b.Distance); da != db {
				return da < db
			}
			if a.Stroke != b.Stroke {
				return a.Stroke < b.Stroke
			}
			if a.Course != b.Course {
				return a.Course < b.Course
			}
			// Same event, fastest first
			return compareByTime(a, b)
		})
	case SortByTime:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByTime(records[i], records[j])
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			ni, nj := strings.ToLower(records[i].Name), strings.ToLower(records[j].Name)
			if ni != nj {
				return ni < nj
			}
			return compareByTime(records[i], records[j])
		})
	}
}

// compareByTime reports whether i is faster than j.
// Times that cannot be read as seconds sort after all others.
func compareByTime(i, j result.Record) bool {
	si, okI := i.Seconds()
	sj, okJ := j.Seconds()

	if okI && okJ {
		return si < sj
	}
	return okI && !okJ
}

// distanceMeters reads the leading number of a distance such as "100m".
// Unknown distances sort last.
func distanceMeters(d string) int {
	d = strings.TrimSpace(d)
	end := 0
	for end < len(d) && d[end] >= '0' && d[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(d[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}
