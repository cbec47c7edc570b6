// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rules implements the consensus rules that turn a round of planning
poker votes into a single estimation.

# Rules

Five rules are supported, fixed per session at creation time:

  - strict: valid only when every numeric vote is identical
  - average: arithmetic mean, rounded half away from zero
  - median: middle value; for even counts, the rounded mean of the two
    middle values
  - absolute_majority: the most frequent value, valid only when it holds
    strictly more than half of the numeric votes
  - relative_majority: the most frequent value (plurality), always valid

# Vote vocabulary

Votes are submitted as string literals from a closed set: the numeric scale
(0, 1, 2, 3, 5, 8, 13, 20, 40, 100) plus two sentinels, "?" (unknown) and
"coffee" (break request). ValidValue checks membership.

Sentinels are filtered before any rule runs. If no numeric votes remain,
ComputeResult returns an invalid Result with reason "no numeric votes".

# Determinism

Frequency ties are broken deterministically: absolute_majority prefers the
lowest tied value, relative_majority the largest. Unanimous coffee-break
detection is not a rule; the engine checks for it before calling
ComputeResult.
*/
package rules
