package xai

import (
	"sort"
	"strings"
)

const (
	defaultPrimaryLabel = "보습 개선"
	defaultFeelLabel    = "촉촉"
	genericSubject      = "피부"
)

// DefaultKeywords is returned when the review text yields no usable token.
func DefaultKeywords() []string {
	return []string{defaultPrimaryLabel, defaultFeelLabel}
}

// ExtractKeywords returns up to three explanation labels for one product:
// a problem/improvement label, a texture word, and an ingredient or effect
// word. It is a pure function of the text.
func ExtractKeywords(reviewText string) []string {
	if strings.TrimSpace(reviewText) == "" {
		return DefaultKeywords()
	}

	freq := CountTokens(reviewText)
	if len(freq) == 0 {
		return DefaultKeywords()
	}

	out := make([]string, 0, 3)

	primary := primaryLabel(freq)
	out = append(out, primary)

	banned := map[string]bool{}
	for _, w := range strings.Fields(primary) {
		banned[w] = true
	}

	if feel := mostFrequent(freq, banned, func(t string) bool { return feelWords.has(t) }); feel != "" {
		out = append(out, feel)
		banned[feel] = true
	}

	if formulation := formulationKeyword(freq, banned); formulation != "" {
		out = append(out, formulation)
	}

	return out
}

// primaryLabel picks the (problem, tail) pair with the largest
// freq(problem)*freq(tail) among compatible pairs.
func primaryLabel(freq TokenFrequency) string {
	problems := make([]string, 0)
	for t := range freq {
		if problemWords.has(t) {
			problems = append(problems, t)
		}
	}
	sort.Strings(problems)

	tailFreq := map[string]int{}
	for t, n := range freq {
		if c, ok := tailCanon[t]; ok {
			tailFreq[c] += n
		}
	}
	tails := make([]string, 0, len(tailFreq))
	for c := range tailFreq {
		tails = append(tails, c)
	}
	sort.Strings(tails)

	if len(problems) > 0 && len(tails) > 0 {
		bestProblem, bestTail, bestScore := "", "", -1
		for _, p := range problems {
			for _, tail := range tails {
				if !tailAllows[tail].has(p) {
					continue
				}
				score := freq[p] * tailFreq[tail]
				if score > bestScore || (score == bestScore && freq[p] > freq[bestProblem]) {
					bestProblem, bestTail, bestScore = p, tail, score
				}
			}
		}
		if bestScore >= 0 {
			return problemLabel(bestProblem, bestTail)
		}
	}

	if len(problems) > 0 {
		p := mostFrequent(freq, nil, func(t string) bool { return problemWords.has(t) })
		return problemLabel(p, tailImprove)
	}

	if len(tails) > 0 {
		best := tails[0]
		for _, c := range tails[1:] {
			if tailFreq[c] > tailFreq[best] {
				best = c
			}
		}
		return genericSubject + " " + best
	}

	return defaultPrimaryLabel
}

func problemLabel(problem, tail string) string {
	if label, ok := problemLabels[problem]; ok {
		return label
	}
	return problem + " " + tail
}

var (
	broadEffectWords = effectWords.minus(problemWords, feelWords)

	formulationTiers = []func(string) bool{
		func(t string) bool { return ingredientWords.has(t) },
		func(t string) bool { return coreEffectWords.has(t) },
		func(t string) bool { return broadEffectWords.has(t) },
		func(t string) bool { return !isTailWord(t) },
	}
)

func isTailWord(t string) bool {
	_, ok := tailCanon[t]
	return ok
}

func formulationKeyword(freq TokenFrequency, banned map[string]bool) string {
	for _, inTier := range formulationTiers {
		if t := mostFrequent(freq, banned, inTier); t != "" {
			return t
		}
	}
	return ""
}

// mostFrequent returns the highest-count token accepted by keep that is
// neither banned nor verb-like. Ties go to the lexicographically smaller
// token. Empty when nothing qualifies.
func mostFrequent(freq TokenFrequency, banned map[string]bool, keep func(string) bool) string {
	best, bestN := "", 0
	for t, n := range freq {
		if banned[t] || !keep(t) || isVerbLike(t) {
			continue
		}
		if n > bestN || (n == bestN && t < best) {
			best, bestN = t, n
		}
	}
	return best
}
