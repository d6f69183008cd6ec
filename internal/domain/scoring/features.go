package scoring

import (
	"regexp"
	"sort"
	"strings"

	"github.com/okian/interviewcoach/internal/domain/catalog"
)

// Features are the counts read from a transcript.
type Features struct {
	Words      int `json:"words"`
	Technical  int `json:"technical"`
	Confidence int `json:"confidence"`
	Filler     int `json:"filler"`
	Metrics    int `json:"metrics"`
}

// matchers holds compiled vocabularies. A nil pattern counts nothing.
type matchers struct {
	technical  *regexp.Regexp
	confidence *regexp.Regexp
	filler     *regexp.Regexp
	metrics    *regexp.Regexp
}

func newMatchers(v catalog.Vocabulary) matchers {
	m := matchers{
		technical:  wordPattern(v.Technical),
		confidence: wordPattern(v.Confidence),
		filler:     wordPattern(v.Filler),
	}
	units := alternation(v.MetricUnits)
	if units == "" {
		m.metrics = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)
	} else {
		m.metrics = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s?(?:%|(?:` + units + `)\b)`)
	}
	return m
}

// wordPattern matches any term as a whole word or phrase.
func wordPattern(terms []string) *regexp.Regexp {
	alt := alternation(terms)
	if alt == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + alt + `)\b`)
}

// alternation quotes terms longest first so "unit test" wins over "unit".
func alternation(terms []string) string {
	quoted := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}

func count(re *regexp.Regexp, s string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(s, -1))
}

func (m matchers) extract(transcript string) Features {
	return Features{
		Words:      len(strings.Fields(transcript)),
		Technical:  count(m.technical, transcript),
		Confidence: count(m.confidence, transcript),
		Filler:     count(m.filler, transcript),
		Metrics:    count(m.metrics, transcript),
	}
}
