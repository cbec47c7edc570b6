// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Rule identifies the consensus rule a session uses to turn a round of
// votes into a single estimation. The rule is fixed at session creation.
type Rule string

const (
	RuleStrict           Rule = "strict"
	RuleAverage          Rule = "average"
	RuleMedian           Rule = "median"
	RuleAbsoluteMajority Rule = "absolute_majority"
	RuleRelativeMajority Rule = "relative_majority"
)

var ErrUnknownRule = errors.New("unknown vote rule")

// ParseRule validates a rule identifier. Unknown identifiers are rejected
// here, at session creation, so the engine never sees one at runtime.
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case RuleStrict, RuleAverage, RuleMedian, RuleAbsoluteMajority, RuleRelativeMajority:
		return Rule(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRule, s)
}

// Sentinel vote values. They never participate in numeric rules.
const (
	ValueUnknown = "?"
	ValueCoffee  = "coffee"
)

// Scale is the numeric card deck participants vote with.
var Scale = []int{0, 1, 2, 3, 5, 8, 13, 20, 40, 100}

// ValidValue reports whether a submitted literal belongs to the closed
// vote vocabulary: the numeric scale plus the two sentinels.
func ValidValue(v string) bool {
	if v == ValueUnknown || v == ValueCoffee {
		return true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	for _, s := range Scale {
		if s == n {
			return true
		}
	}
	return false
}

// Reason tags carried by Result.
const (
	ReasonNoNumericVotes     = "no numeric votes"
	ReasonUnanimous          = "unanimous"
	ReasonNoUnanimity        = "no unanimity"
	ReasonAverage            = "average"
	ReasonMedian             = "median"
	ReasonAbsoluteMajority   = "absolute majority"
	ReasonNoAbsoluteMajority = "no absolute majority"
	ReasonRelativeMajority   = "relative majority"
	ReasonCoffeeBreak        = "unanimous coffee break"
)

// Result is the outcome of applying a rule to one round of votes.
// Value is nil whenever Valid is false, and for coffee-break results.
type Result struct {
	Valid       bool   `json:"valid"`
	Value       *int   `json:"value"`
	CoffeeBreak bool   `json:"coffee_break,omitempty"`
	Reason      string `json:"reason"`
}

// ComputeResult applies rule to the raw submitted values. Non-numeric
// entries (sentinels, or anything else) are filtered out first; if nothing
// numeric remains the result is invalid regardless of rule.
//
// Rounding is half away from zero (math.Round). Frequency ties resolve to
// the lowest value for absolute majority and to the largest value for
// relative majority; both choices are deterministic and pinned by tests.
func ComputeResult(values []string, rule Rule) Result {
	numeric := numericVotes(values)
	if len(numeric) == 0 {
		return Result{Valid: false, Reason: ReasonNoNumericVotes}
	}
	sort.Ints(numeric)

	switch rule {
	case RuleStrict:
		for _, v := range numeric {
			if v != numeric[0] {
				return Result{Valid: false, Reason: ReasonNoUnanimity}
			}
		}
		return valid(numeric[0], ReasonUnanimous)

	case RuleAverage:
		sum := 0
		for _, v := range numeric {
			sum += v
		}
		avg := float64(sum) / float64(len(numeric))
		return valid(roundToInt(avg), ReasonAverage)

	case RuleMedian:
		mid := len(numeric) / 2
		if len(numeric)%2 == 1 {
			return valid(numeric[mid], ReasonMedian)
		}
		median := float64(numeric[mid-1]+numeric[mid]) / 2
		return valid(roundToInt(median), ReasonMedian)

	case RuleAbsoluteMajority:
		top, count := topFrequencyLowest(numeric)
		if count*2 > len(numeric) {
			return valid(top, ReasonAbsoluteMajority)
		}
		return Result{Valid: false, Reason: ReasonNoAbsoluteMajority}

	default:
		// Relative majority, the plurality rule.
		top := topFrequencyLargest(numeric)
		return valid(top, ReasonRelativeMajority)
	}
}

func valid(value int, reason string) Result {
	return Result{Valid: true, Value: &value, Reason: reason}
}

func numericVotes(values []string) []int {
	var numeric []int
	for _, v := range values {
		if n, err := strconv.Atoi(v); err == nil {
			numeric = append(numeric, n)
		}
	}
	return numeric
}

func roundToInt(f float64) int {
	return int(math.Round(f))
}

// topFrequencyLowest returns the most frequent value and its count,
// preferring the lowest value when counts tie. Input must be sorted.
func topFrequencyLowest(sorted []int) (value, count int) {
	freq := frequencies(sorted)
	count = -1
	for _, v := range distinct(sorted) {
		if freq[v] > count {
			value, count = v, freq[v]
		}
	}
	return value, count
}

// topFrequencyLargest returns the most frequent value, preferring the
// largest value when counts tie. Input must be sorted.
func topFrequencyLargest(sorted []int) int {
	freq := frequencies(sorted)
	value, count := 0, -1
	for _, v := range distinct(sorted) {
		if freq[v] > count || (freq[v] == count && v > value) {
			value, count = v, freq[v]
		}
	}
	return value
}

func frequencies(values []int) map[int]int {
	freq := make(map[int]int, len(values))
	for _, v := range values {
		freq[v]++
	}
	return freq
}

func distinct(sorted []int) []int {
	var out []int
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
