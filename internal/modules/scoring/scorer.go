// Package scoring computes the bounded quality score and verdict for one
// candidate phrase. Local heuristics are pure; external boosters only run
// when explicitly requested and degrade to zero on failure.
package scoring

import (
	"context"
	"strings"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"go.uber.org/zap"
)

const (
	lexicalCap   = 40
	categoryCap  = 15
	wikipediaCap = 30
	redditCap    = 15

	// MaxWithBoosters and MaxLocalOnly are the total caps for the two
	// configurations. The local-only cap is deliberately lower instead of
	// redistributing the booster weight, so a local-only score can never
	// reach the bands that imply external validation.
	MaxWithBoosters = lexicalCap + categoryCap + wikipediaCap + redditCap
	MaxLocalOnly    = lexicalCap + categoryCap

	shortWordPoints  = 5
	shortWordCap     = 15
	shortWordLen     = 6
	commonWordPoints = 5
	commonWordCap    = 10
	pairBonus        = 10
	quadBonus        = 6
	recencyBonus     = 10
	compactBonus     = 5

	popCultureBonus  = 8
	substringBonus   = 5
	technicalPenalty = 8
	brandBonus       = 3
)

// HighQualityThreshold marks the score at or above which a candidate counts
// toward a batch's high-quality ratio. The in-call gate scores local-only, so
// the bar sits well below MaxLocalOnly.
const HighQualityThreshold = 30

// Verdict is the discrete quality label derived from the total score.
type Verdict string

const (
	VerdictExcellent  Verdict = "excellent"
	VerdictGood       Verdict = "good"
	VerdictAcceptable Verdict = "acceptable"
	VerdictPoor       Verdict = "poor"
	VerdictReject     Verdict = "reject"
)

// Result is the outcome of scoring a single candidate.
type Result struct {
	Total     int                   `json:"total"`
	Breakdown models.ScoreBreakdown `json:"breakdown"`
	Verdict   Verdict               `json:"verdict"`
}

// commonWords are everyday terms players recognize instantly.
var commonWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"dog", "cat", "car", "house", "pizza", "cake", "coffee", "beach",
		"dance", "party", "game", "ball", "movie", "song", "star", "fire",
		"rain", "snow", "beer", "wine", "taco", "burger", "phone", "selfie",
		"road", "trip", "school", "beachball", "ice", "cream", "candy",
		"night", "morning", "breakfast", "lunch", "dinner", "shower",
		"karaoke", "wedding", "birthday", "holiday", "surf", "ski", "swim",
	} {
		commonWords[w] = struct{}{}
	}
}

// recencyTerms indicate current-culture relevance.
var recencyTerms = []string{
	"tiktok", "viral", "streaming", "podcast", "meme", "influencer",
	"binge", "emoji", "selfie", "hashtag", "remote work", "ai",
}

// popCultureCategories receive a flat boost.
var popCultureCategories = map[string]struct{}{
	"movies & tv":                 {},
	"music & artists":             {},
	"famous people":               {},
	"sports & athletes":           {},
	"food & drink":                {},
	"entertainment & pop culture": {},
	"everything":                  {},
	"everything+":                 {},
}

var brandTokens = []string{
	"netflix", "disney", "nike", "mcdonald", "starbucks", "apple",
	"google", "amazon", "spotify", "lego",
}

// Scorer scores candidates; its booster client may be nil in local-only
// deployments.
type Scorer struct {
	boosters *BoosterClient
	log      *zap.Logger
}

func NewScorer(boosters *BoosterClient, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{boosters: boosters, log: log.Named("scorer")}
}

// Score computes the bounded total, its breakdown, and the verdict for one
// candidate. Local sub-scores are a pure function of the inputs; booster
// lookups run only when useBoosters is set and degrade to zero on failure.
func (s *Scorer) Score(ctx context.Context, text, category string, useBoosters bool) Result {
	breakdown := models.ScoreBreakdown{
		Lexical:  lexicalScore(text),
		Category: categoryBoost(text, category),
	}

	max := MaxLocalOnly
	if useBoosters {
		max = MaxWithBoosters
		breakdown.Wikipedia, breakdown.Reddit, breakdown.BoosterError = s.boosterScores(ctx, text)
	}

	total := breakdown.Lexical + breakdown.Category + breakdown.Wikipedia + breakdown.Reddit
	total = clamp(total, 0, max)

	return Result{Total: total, Breakdown: breakdown, Verdict: verdictFor(total)}
}

func (s *Scorer) boosterScores(ctx context.Context, text string) (wikipedia, reddit int, boosterErr string) {
	if s.boosters == nil {
		return 0, 0, "booster client not configured"
	}

	var reasons []string
	wikipedia, err := s.boosters.WikipediaTier(ctx, text)
	if err != nil {
		wikipedia = 0
		reasons = append(reasons, "wikipedia: "+err.Error())
		s.log.Debug("wikipedia booster failed", zap.String("text", text), zap.Error(err))
	}
	reddit, err = s.boosters.RedditTier(ctx, text)
	if err != nil {
		reddit = 0
		reasons = append(reasons, "reddit: "+err.Error())
		s.log.Debug("reddit booster failed", zap.String("text", text), zap.Error(err))
	}
	return wikipedia, reddit, strings.Join(reasons, "; ")
}

// lexicalScore rewards short common words, low word counts, and recency
// terms. Each sub-term is clamped before summing and the sum is clamped to
// the lexical cap.
func lexicalScore(text string) int {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}

	short := 0
	common := 0
	allAtLeastTwo := true
	for _, w := range words {
		if len(w) <= shortWordLen {
			short += shortWordPoints
		}
		if _, ok := commonWords[strings.Trim(w, ".,!?'\"")]; ok {
			common += commonWordPoints
		}
		if len(w) < 2 {
			allAtLeastTwo = false
		}
	}
	short = clamp(short, 0, shortWordCap)
	common = clamp(common, 0, commonWordCap)

	count := 0
	switch {
	case len(words) <= 2:
		count = pairBonus
	case len(words) <= 4:
		count = quadBonus
	}

	recency := 0
	for _, term := range recencyTerms {
		if strings.Contains(lower, term) {
			recency = recencyBonus
			break
		}
	}

	compact := 0
	if allAtLeastTwo && len(words) <= 4 {
		compact = compactBonus
	}

	return clamp(short+common+count+recency+compact, 0, lexicalCap)
}

// categoryBoost rewards pop-culture categories and penalizes technical ones.
// The net boost can go negative before clamping but never after: floor is 0.
func categoryBoost(text, category string) int {
	cat := strings.ToLower(strings.TrimSpace(category))
	lower := strings.ToLower(text)

	boost := 0
	if _, ok := popCultureCategories[cat]; ok {
		boost += popCultureBonus
	}
	for _, sub := range []string{"movie", "tv", "food", "drink", "sport", "music"} {
		if strings.Contains(cat, sub) {
			boost += substringBonus
		}
	}
	for _, sub := range []string{"science", "technology"} {
		if strings.Contains(cat, sub) {
			boost -= technicalPenalty
		}
	}
	for _, brand := range brandTokens {
		if strings.Contains(lower, brand) {
			boost += brandBonus
			break
		}
	}

	return clamp(boost, 0, categoryCap)
}

// verdictFor maps a total score to its band, highest first.
func verdictFor(total int) Verdict {
	switch {
	case total >= 80:
		return VerdictExcellent
	case total >= 60:
		return VerdictGood
	case total >= 40:
		return VerdictAcceptable
	case total >= 20:
		return VerdictPoor
	default:
		return VerdictReject
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
