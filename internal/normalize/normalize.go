// Package normalize converts raw extracted strings into typed values.
// All functions are pure. The numeric convention is: invalid or missing
// input yields nil, except ranks and points which yield zero because a team
// without a record yet is a valid state, not missing data.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// unitStrip lists the separator and unit substrings removed before numeric
// parsing: thousands comma, Japanese person counter, degree suffixes,
// percent sign, distance/count units, Korean rank suffix.
var unitStrip = []string{",", "人", "℃", "°C", "%", "km", "KM", "Km", "回", "위", "명"}

// stripUnits removes known unit substrings and surrounding whitespace.
func stripUnits(raw string) string {
	for _, unit := range unitStrip {
		raw = strings.ReplaceAll(raw, unit, "")
	}
	return strings.TrimSpace(raw)
}

// Int parses a raw numeric string after unit cleaning. Non-numeric residue
// yields nil, never zero.
func Int(raw string) *int {
	clean := stripUnits(raw)

	n, err := strconv.Atoi(clean)
	if err != nil {
		return nil
	}

	return &n
}

// Float parses a raw decimal string after unit cleaning. Non-numeric
// residue yields nil.
func Float(raw string) *float64 {
	clean := stripUnits(raw)

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}

	return &f
}

// Attendance parses an attendance string such as "45,123人" into an
// integer. Invalid input yields nil. Already-clean input parses unchanged.
func Attendance(raw string) *int {
	return Int(raw)
}

// Rank parses a rank string such as "3위". Non-digit input yields 0.
func Rank(raw string) int {
	clean := stripUnits(raw)

	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0
	}

	return n
}

// recordPattern matches a win/draw/loss record in free text, e.g.
// "3위 2승 1무 0패".
var recordPattern = regexp.MustCompile(`(\d+)승\s*(\d+)무\s*(\d+)패`)

// Points for a win and a draw under the three-point rule.
const (
	winPoints  = 3
	drawPoints = 1
)

// Record extracts (wins, draws, losses) from free text. The boolean is
// false when no record pattern is present.
func Record(raw string) (wins, draws, losses int, ok bool) {
	m := recordPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, 0, false
	}

	wins, _ = strconv.Atoi(m[1])
	draws, _ = strconv.Atoi(m[2])
	losses, _ = strconv.Atoi(m[3])

	return wins, draws, losses, true
}

// Points derives league points from a win/draw/loss record in free text.
// Text without a record yields 0.
func Points(raw string) int {
	wins, draws, _, ok := Record(raw)
	if !ok {
		return 0
	}

	return wins*winPoints + draws*drawPoints
}
