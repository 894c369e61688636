// Package extractor turns free-text scheduling wishes such as "no classes on
// Friday, nothing before 10am" into constraint records.
package extractor

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
)

// Extractor finds constraint records in free text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]scheduler.ConstraintRecord, error)
}

const (
	dayPattern  = `(?:sun(?:day)?|mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?)s?`
	dayList     = dayPattern + `(?:\s*(?:,|&|\band\b|\bor\b)\s*` + dayPattern + `)*`
	timePattern = `(?:noon|midnight|\d{1,2}(?::\d{2})?\s*(?:[ap]\.?m\.?)?)`
	classWord   = `(?:class(?:es)?|lectures?|sessions?|courses?)`
	// up to three qualifiers such as "early morning" before the class word
	classPhrase = `(?:\p{L}+\s+){0,3}?` + classWord
)

var (
	dayWord = regexp.MustCompile(`(?i)\b` + dayPattern + `\b`)

	dayRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:no|avoid)\s+` + classPhrase + `\s+on\s+(` + dayList + `)\b`),
		regexp.MustCompile(`(?i)\bnot\s+on\s+(` + dayList + `)\b`),
		regexp.MustCompile(`(?i)\bno\s+(` + dayList + `)\s+` + classWord + `\b`),
		regexp.MustCompile(`(?i)\b(` + dayList + `)\s+off\b`),
		regexp.MustCompile(`(?i)\b(?:keep|leave)\s+(` + dayList + `)\s+free\b`),
	}
	beforeRule = regexp.MustCompile(`(?i)\b(?:no\s+` + classPhrase + `|not|nothing|anything)\s+(?:before|earlier\s+than)\s+(` + timePattern + `)`)
	afterRule  = regexp.MustCompile(`(?i)\b(?:no\s+` + classPhrase + `|not|nothing|anything)\s+(?:after|later\s+than)\s+(` + timePattern + `)`)
	avoidRule  = regexp.MustCompile(`(?i:\b(?:avoid|don['’]?t\s+schedule|do\s+not\s+schedule)\s+(?:the\s+)?(?:ta|teaching\s+assistant)\s+)([\p{L}][\p{L}'-]*(?:\s+\p{Lu}[\p{L}'-]*)*)`)

	clockPattern = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([ap])?`)
)

// RuleExtractor recognises a fixed set of English phrasings with regular
// expressions. Results keep the order in which they appear in the text and
// duplicates are dropped.
type RuleExtractor struct {
	logger *zap.Logger
}

// NewRuleExtractor constructs the extractor.
func NewRuleExtractor(logger *zap.Logger) *RuleExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleExtractor{logger: logger}
}

type match struct {
	pos    int
	record scheduler.ConstraintRecord
}

// Extract implements Extractor.
func (e *RuleExtractor) Extract(ctx context.Context, text string) ([]scheduler.ConstraintRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found []match
	for _, rule := range dayRules {
		for _, loc := range rule.FindAllStringSubmatchIndex(text, -1) {
			group := text[loc[2]:loc[3]]
			for _, dayLoc := range dayWord.FindAllStringIndex(group, -1) {
				day, err := scheduler.ParseDay(group[dayLoc[0]:dayLoc[0]+3])
				if err != nil {
					continue
				}
				found = append(found, match{pos: loc[2] + dayLoc[0], record: scheduler.NoClassDay{Day: day}.Record()})
			}
		}
	}

	for _, loc := range beforeRule.FindAllStringSubmatchIndex(text, -1) {
		if hour, ok := parseHour(text[loc[2]:loc[3]], true); ok {
			found = append(found, match{pos: loc[0], record: scheduler.NoClassBefore{Hour: hour}.Record()})
		}
	}
	for _, loc := range afterRule.FindAllStringSubmatchIndex(text, -1) {
		if hour, ok := parseHour(text[loc[2]:loc[3]], false); ok {
			found = append(found, match{pos: loc[0], record: scheduler.NoClassAfter{Hour: hour}.Record()})
		}
	}

	for _, loc := range avoidRule.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[loc[2]:loc[3]])
		if name == "" {
			continue
		}
		found = append(found, match{pos: loc[0], record: scheduler.AvoidTA{Name: name}.Record()})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	records := make([]scheduler.ConstraintRecord, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, m := range found {
		key := recordKey(m.record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, m.record)
	}

	e.logger.Debug("constraints extracted", zap.Int("count", len(records)))
	return records, nil
}

func recordKey(r scheduler.ConstraintRecord) string {
	hour := ""
	if r.Time != nil {
		hour = strconv.Itoa(*r.Time)
	}
	return r.Type + "|" + r.Day + "|" + hour + "|" + strings.ToLower(r.Name)
}

// parseHour converts a clock expression to a whole hour. Minutes round towards
// the stricter side: up for a floor ("before 9:30" means 10), down for a
// ceiling. Bare hours from 1 to 6 are read as afternoon times.
func parseHour(raw string, floor bool) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "noon":
		return 12, true
	case "midnight":
		if floor {
			return 0, true
		}
		return scheduler.MaxHour, true
	}

	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
		if minutes > 59 {
			return 0, false
		}
	}

	switch m[3] {
	case "a":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour >= 1 && hour <= 6 {
			hour += 12
		}
	}

	if minutes > 0 && floor {
		hour++
	}
	if hour < 0 || hour > scheduler.MaxHour {
		return 0, false
	}
	return hour, true
}
