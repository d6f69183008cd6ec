// Package scoring produces the critique for an interview answer from its
// category and an optional content signal. The Scorer is pure under the
// default sampler: equal inputs give equal results.
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/internal/domain/sampling"
)

// Rating bounds for signal-driven results.
const (
	minSignalRating = 1.0
	maxSignalRating = 9.0
	briefRating     = 3.0
	silentRating    = 1.0
)

// Text path thresholds.
const (
	briefWordLimit   = 20
	wordsForDepth    = 50
	wordsForDetail   = 100
	technicalSome    = 2
	technicalMany    = 5
	confidenceSome   = 2
	fillerWordsRatio = 20
)

// Timing estimates used to place mistakes on the recording.
const (
	wordsPerMinute     = 150
	minDurationSeconds = 30
	maxDurationSeconds = 600
	secondsPerMiB      = 6
	baselineSeconds    = 120
	bytesPerMiB        = 1 << 20
)

// Selection bounds.
const (
	minMistakes = 1
	maxMistakes = 4
	minTips     = 2
	maxTips     = 5
)

// Bands for the summary line.
const (
	bandStrong     = "strong"
	bandGood       = "good"
	bandDeveloping = "developing"
)

// Fixed text for short-circuit results.
const (
	noSpeechMistake = "No speech detected in the recording"
	briefMistake    = "Response too brief to evaluate"
)

var (
	noSpeechTips = []string{
		"Check that your microphone is connected and unmuted",
		"Record in a quiet room and speak towards the microphone",
		"Play back a short test clip before recording a full answer",
	}
	briefTips = []string{
		"Aim for an answer of one to two minutes",
		"Use the STAR format: situation, task, action, result",
		"Add a concrete example and the outcome you achieved",
	}
)

// Scorer computes AnalysisResults from a catalog table. It is safe for
// concurrent use.
type Scorer struct {
	table   *catalog.Table
	sampler sampling.Sampler
	match   matchers
}

// New returns a scorer over t. A nil table uses catalog.Default().
func New(t *catalog.Table, opts ...Option) *Scorer {
	if t == nil {
		t = catalog.Default()
	}
	s := &Scorer{
		table:   t,
		sampler: sampling.NewHashSampler(),
		match:   newMatchers(t.Vocabulary),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Features extracts the transcript counts used by the text path.
func (s *Scorer) Features(transcript string) Features {
	return s.match.extract(transcript)
}

// Score returns the critique for field under category c. A nil signal
// scores the category baseline. Score never fails; the rating is always a
// multiple of 0.5 within [model.MinRating, model.MaxRating].
func (s *Scorer) Score(c model.Category, field string, signal model.ContentSignal) model.AnalysisResult {
	entry := s.table.Entry(c)
	label := strings.TrimSpace(field)
	if label == "" {
		label = string(entry.Category)
	}

	switch sig := signal.(type) {
	case model.TextSignal:
		return s.scoreText(entry, label, sig.Transcript)
	case *model.TextSignal:
		if sig != nil {
			return s.scoreText(entry, label, sig.Transcript)
		}
	case model.FileSignal:
		return s.scoreFile(entry, label, sig)
	case *model.FileSignal:
		if sig != nil {
			return s.scoreFile(entry, label, *sig)
		}
	}
	return s.scoreBaseline(entry, label)
}

func (s *Scorer) scoreBaseline(e catalog.Entry, label string) model.AnalysisResult {
	rating := roundHalf(clamp(e.Baseline, model.MinRating, model.MaxRating))
	key := sampling.RollingHash(string(e.Category))
	mistakes, tips := selectionSizes(rating)
	return model.AnalysisResult{
		Rating:   rating,
		Mistakes: stamp(s.pick(key, e.Mistakes, s.table.Generic().Mistakes, mistakes, nil), baselineSeconds),
		Tips:     s.pick(key, e.Tips, s.table.Generic().Tips, tips, nil),
		Summary:  summary(label, rating, "Upload a recording or transcript for a detailed review."),
	}
}

// FileKey is the rolling hash of "name:size" that drives the file path.
func FileKey(f model.FileSignal) int64 {
	return sampling.RollingHash(f.Name + ":" + strconv.FormatInt(f.Size, 10))
}

func (s *Scorer) scoreFile(e catalog.Entry, label string, f model.FileSignal) model.AnalysisResult {
	key := FileKey(f)
	variation := float64(key%8-4) * 0.25
	rating := roundHalf(clamp(e.Baseline+variation, minSignalRating, maxSignalRating))
	mistakes, tips := selectionSizes(rating)
	return model.AnalysisResult{
		Rating:   rating,
		Mistakes: stamp(s.pick(key, e.Mistakes, s.table.Generic().Mistakes, mistakes, nil), fileSeconds(f.Size)),
		Tips:     s.pick(key, e.Tips, s.table.Generic().Tips, tips, nil),
		Summary:  summary(label, rating, "Based on the uploaded recording."),
	}
}

func (s *Scorer) scoreText(e catalog.Entry, label, transcript string) model.AnalysisResult {
	f := s.match.extract(transcript)

	if f.Words == 0 {
		return model.AnalysisResult{
			Rating:   silentRating,
			Mistakes: []model.Mistake{{Timestamp: formatTimestamp(0), Text: noSpeechMistake}},
			Tips:     append([]string(nil), noSpeechTips...),
			Summary:  summary(label, silentRating, "No speech was detected, so the answer could not be assessed."),
		}
	}
	if f.Words < briefWordLimit {
		return model.AnalysisResult{
			Rating:   briefRating,
			Mistakes: []model.Mistake{{Timestamp: formatTimestamp(0), Text: briefMistake}},
			Tips:     append([]string(nil), briefTips...),
			Summary:  summary(label, briefRating, "The answer was too short for a full assessment."),
		}
	}

	rating := e.Baseline + adjustment(f)
	rating = roundHalf(clamp(rating, minSignalRating, maxSignalRating))
	mistakes, tips := selectionSizes(rating)
	key := sampling.RollingHash(transcript)

	return model.AnalysisResult{
		Rating:   rating,
		Mistakes: stamp(s.pick(key, e.Mistakes, s.table.Generic().Mistakes, mistakes, observations(f)), textSeconds(f.Words)),
		Tips:     s.pick(key, e.Tips, s.table.Generic().Tips, tips, nil),
		Summary:  summary(label, rating, fmt.Sprintf("Based on a %d-word transcript.", f.Words)),
	}
}

// adjustment is the bonus the transcript earns over the category baseline.
func adjustment(f Features) float64 {
	var adj float64
	if f.Words > wordsForDepth {
		adj++
	}
	if f.Words > wordsForDetail {
		adj += 0.5
	}
	if f.Technical > technicalSome {
		adj++
	}
	if f.Technical > technicalMany {
		adj += 0.5
	}
	if f.Confidence > confidenceSome {
		adj++
	}
	if f.Metrics > 0 {
		adj++
	}
	if float64(f.Filler) < float64(f.Words)/fillerWordsRatio {
		adj += 0.5
	}
	return adj
}

// observations lists mistakes read directly off the transcript, most
// specific first.
func observations(f Features) []string {
	var out []string
	if float64(f.Filler) >= float64(f.Words)/fillerWordsRatio {
		out = append(out, fmt.Sprintf("Frequent filler words (%d in %d words)", f.Filler, f.Words))
	}
	if f.Metrics == 0 {
		out = append(out, "No measurable results mentioned")
	}
	if f.Technical <= technicalSome {
		out = append(out, "Limited technical or domain detail")
	}
	if f.Confidence <= confidenceSome {
		out = append(out, "Tentative phrasing; few statements of personal ownership")
	}
	if f.Words <= wordsForDepth {
		out = append(out, "Answer was short; expand on the example")
	}
	return out
}

// selectionSizes returns how many mistakes and tips to show. Lower ratings
// show more of each.
func selectionSizes(rating float64) (mistakes, tips int) {
	mistakes = int(clamp(math.Round((model.MaxRating-rating)/2), minMistakes, maxMistakes))
	tips = int(clamp(float64(mistakes+1), minTips, maxTips))
	return mistakes, tips
}

// pick returns n distinct strings: lead first, then sampled entries from
// pool, then from fallback when pool runs short.
func (s *Scorer) pick(key int64, pool, fallback []string, n int, lead []string) []string {
	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	push := func(v string) {
		if len(out) < n && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range lead {
		push(v)
	}
	for _, i := range s.sampler.Pick(key, len(pool), n-len(out)) {
		push(pool[i])
	}
	if len(out) < n {
		rest := make([]string, 0, len(fallback))
		for _, v := range fallback {
			if !seen[v] {
				rest = append(rest, v)
			}
		}
		for _, i := range s.sampler.Pick(key, len(rest), n-len(out)) {
			push(rest[i])
		}
	}
	return out
}

// stamp spreads texts evenly across a recording of the given length.
func stamp(texts []string, seconds int) []model.Mistake {
	out := make([]model.Mistake, len(texts))
	for i, t := range texts {
		at := seconds * (i + 1) / (len(texts) + 1)
		out[i] = model.Mistake{Timestamp: formatTimestamp(at), Text: t}
	}
	return out
}

func textSeconds(words int) int {
	sec := words * 60 / wordsPerMinute
	if sec < minDurationSeconds {
		return minDurationSeconds
	}
	return sec
}

func fileSeconds(size int64) int {
	if size <= 0 {
		return minDurationSeconds
	}
	sec := float64(size) * secondsPerMiB / bytesPerMiB
	return int(clamp(sec, minDurationSeconds, maxDurationSeconds))
}

// formatTimestamp renders seconds as M:SS, or MM:SS past ten minutes.
func formatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Band names the qualitative level of a rating.
func Band(rating float64) string {
	switch {
	case rating >= 7:
		return bandStrong
	case rating >= 6:
		return bandGood
	default:
		return bandDeveloping
	}
}

func summary(label string, rating float64, detail string) string {
	return fmt.Sprintf("Your %s interview answer rated %.1f/10, a %s performance. %s",
		label, rating, Band(rating), detail)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
