package checks

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

const minReadableWords = 50

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
	nonAlpha    = regexp.MustCompile(`[^a-z]`)
	vowelGroup  = regexp.MustCompile(`[aeiou]+`)

	readabilityExcluded = append(append([]string{}, contentExcluded...), "code")
)

// TextStats are the raw counts behind a Flesch Reading Ease score.
type TextStats struct {
	Sentences int
	Words     int
	Syllables int
}

// MeasureText counts sentences (runs of . ! or ?, at least one), whitespace
// separated words and syllables (vowel groups per word, at least one).
func MeasureText(text string) TextStats {
	words := strings.Fields(text)
	st := TextStats{
		Sentences: max(len(sentenceEnd.FindAllStringIndex(text, -1)), 1),
		Words:     len(words),
	}
	for _, w := range words {
		letters := nonAlpha.ReplaceAllString(strings.ToLower(w), "")
		st.Syllables += max(len(vowelGroup.FindAllStringIndex(letters, -1)), 1)
	}
	return st
}

// FleschScore returns the Flesch Reading Ease score clamped to 0-100 and rounded.
func FleschScore(st TextStats) int {
	if st.Words == 0 {
		return 0
	}
	raw := 206.835 - 1.015*(float64(st.Words)/float64(st.Sentences)) - 84.6*(float64(st.Syllables)/float64(st.Words))
	return int(math.Max(0, math.Min(100, math.Round(raw))))
}

func readabilityBand(score int) string {
	switch {
	case score >= 70:
		return "Easy to read (great for most audiences)"
	case score >= 50:
		return "Standard/moderate"
	case score >= 30:
		return "Difficult - consider simplifying"
	}
	return "Very difficult - academic level"
}

var readabilityCheck = Check{
	ID: "readability", Name: "Readability (Flesch)", Category: models.CategoryContent, Weight: 3,
	Eval: func(in *Input) Outcome {
		body := in.Doc.Body()
		if body == nil {
			return Outcome{models.StatusInfo, "(no body)", "", nil}
		}

		st := MeasureText(document.TextExcluding(body, readabilityExcluded...))
		if st.Words < minReadableWords {
			return Outcome{models.StatusInfo, "Not enough text to measure",
				"Add more content to enable readability analysis.", nil}
		}

		score := FleschScore(st)
		status := models.StatusInfo
		switch {
		case score >= 50:
			status = models.StatusPass
		case score >= 30:
			status = models.StatusWarn
		}

		rec := fmt.Sprintf("Readability score is %d/100. Shorter sentences, simpler words and more paragraph breaks make content easier to follow.", score)
		if score >= 60 {
			rec = fmt.Sprintf("Good readability (%d/100). Content suits a general audience.", score)
		}
		return Outcome{status, fmt.Sprintf("Flesch score: %d/100 - %s", score, readabilityBand(score)), rec, nil}
	},
}
