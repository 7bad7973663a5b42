package textmetrics

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	refLineMinChars      = 50
	refAuthorSampleLines = 50
	recentYearWindow     = 5
)

var (
	refYearPattern    = regexp.MustCompile(`\b(19[5-9]\d|20[0-2]\d)\b`)
	refAuthorInitial  = regexp.MustCompile(`,\s*[A-Z]\.`)
	refAuthorConjunct = regexp.MustCompile(`(?i)\s+(?:and|&)\s+[a-z]`)
	refDigit          = regexp.MustCompile(`[0-9]`)
)

// refTypeIndicators maps Korean publication-type labels to the English
// substrings that suggest each type in a reference line.
var refTypeIndicators = []struct {
	label      string
	indicators []string
}{
	{"저널 논문", []string{"journal", "vol.", "volume", "pp.", "pages", "issue"}},
	{"학술대회", []string{"conference", "proceedings", "symposium", "workshop"}},
	{"단행본", []string{"book", "press", "publisher", "edition"}},
	{"학위논문", []string{"dissertation", "thesis", "phd", "doctoral", "master"}},
}

// ReferenceStats summarizes a references section: entry count, publication
// years, rough average author count and publication-type distribution.
type ReferenceStats struct {
	Count       int            `json:"count"`
	Years       map[int]int    `json:"years,omitempty"`
	AvgAuthors  float64        `json:"avg_authors"`
	RecentRatio float64        `json:"recent_ratio"`
	OldestYear  int            `json:"oldest_year,omitempty"`
	NewestYear  int            `json:"newest_year,omitempty"`
	Types       map[string]int `json:"types,omitempty"`
}

// AnalyzeReferences computes local statistics over an already detected
// references section. A reference line must carry at least refLineMinChars
// characters and a digit to count as an entry.
func AnalyzeReferences(section string) *ReferenceStats {
	var lines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > refLineMinChars && refDigit.MatchString(line) {
			lines = append(lines, line)
		}
	}

	stats := &ReferenceStats{Count: len(lines)}
	if len(lines) == 0 {
		return stats
	}

	var years []int
	for _, line := range lines {
		for _, m := range refYearPattern.FindAllString(line, -1) {
			y, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			years = append(years, y)
		}
	}
	if len(years) > 0 {
		stats.Years = make(map[int]int)
		stats.OldestYear, stats.NewestYear = years[0], years[0]
		recent := 0
		cutoff := time.Now().Year() - recentYearWindow
		for _, y := range years {
			stats.Years[y]++
			if y < stats.OldestYear {
				stats.OldestYear = y
			}
			if y > stats.NewestYear {
				stats.NewestYear = y
			}
			if y >= cutoff {
				recent++
			}
		}
		stats.RecentRatio = round1(float64(recent) / float64(len(years)) * 100)
	}

	// Author counting is heuristic: initials after commas, "and"/"&"
	// conjunctions, and "et al." standing in for three or more.
	totalAuthors, counted := 0, 0
	sample := lines
	if len(sample) > refAuthorSampleLines {
		sample = sample[:refAuthorSampleLines]
	}
	for _, line := range sample {
		authors := len(refAuthorInitial.FindAllString(line, -1))
		authors += len(refAuthorConjunct.FindAllString(line, -1))
		if strings.Contains(strings.ToLower(line), "et al") {
			authors += 3
		}
		if authors > 0 {
			totalAuthors += authors
			counted++
		}
	}
	if counted > 0 {
		stats.AvgAuthors = round1(float64(totalAuthors) / float64(counted))
	}

	stats.Types = make(map[string]int)
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, t := range refTypeIndicators {
			matched := false
			for _, ind := range t.indicators {
				if strings.Contains(lower, ind) {
					matched = true
					break
				}
			}
			if matched {
				stats.Types[t.label]++
				break
			}
		}
	}
	if len(stats.Types) == 0 {
		stats.Types = nil
	}
	return stats
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
