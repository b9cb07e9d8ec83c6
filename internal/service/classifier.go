package service

import (
	"regexp"
	"strings"

	"jarvis/internal/model"
	"jarvis/internal/utils"
)

// RuleUnknown is reported by Match when no rule fires
const RuleUnknown = "unknown"

// rule pairs a name with a matcher. match receives the trimmed transcript
// and its lower-cased copy and returns ok=false to fall through.
type rule struct {
	name  string
	match func(transcript, lower string) (model.Intent, bool)
}

// Classifier turns transcripts into intents using an ordered rule table.
// The first rule that fires wins, so the order below is the tie-break policy.
//
// Classifier holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []rule
}

// NewClassifier creates a classifier with the built-in rule table
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules()}
}

func defaultRules() []rule {
	return []rule{
		{name: "open-website", match: matchOpenWebsite},
		{name: "generate-document", match: matchDocument},
		{name: "email-compose", match: matchEmail},
		{name: "youtube-search", match: matchYoutube},
		{name: "maps-search", match: matchMaps},
		{name: "generate-image", match: matchImage},
		{name: "question", match: matchQuestion},
		{name: "search-fallback", match: matchSearchFallback},
	}
}

// Classify returns the intent for transcript. It never fails: transcripts
// that match no rule yield an unknown intent.
func (c *Classifier) Classify(transcript string) model.Intent {
	intent, _ := c.Match(transcript)
	return intent
}

// Match is Classify that also reports the name of the rule that fired
func (c *Classifier) Match(transcript string) (model.Intent, string) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return model.NewUnknownIntent(transcript), RuleUnknown
	}

	lower := strings.ToLower(trimmed)
	for _, r := range c.rules {
		intent, ok := r.match(trimmed, lower)
		if !ok {
			continue
		}
		intent.Transcript = transcript
		return intent, r.name
	}

	return model.NewUnknownIntent(transcript), RuleUnknown
}

// RuleNames lists the rules in evaluation order
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.name
	}
	return names
}

func matchOpenWebsite(transcript, _ string) (model.Intent, bool) {
	rest, ok := utils.CutPrefixFold(transcript, openWebsitePrefix)
	if !ok {
		return model.Intent{}, false
	}
	query := strings.TrimSpace(rest)
	if query == "" {
		return model.Intent{}, false
	}
	return model.Intent{Kind: model.IntentOpenWebsite, Query: query}, true
}

func matchDocument(transcript, lower string) (model.Intent, bool) {
	if !utils.ContainsAny(lower, documentVerbs...) || !utils.ContainsAny(lower, documentNouns...) {
		return model.Intent{}, false
	}

	topic, ok := utils.FirstSubmatch([]*regexp.Regexp{documentStrict}, transcript)
	if !ok {
		topic = utils.StripPattern(documentLoose, transcript)
	}
	if topic == "" {
		return model.Intent{}, false
	}
	return model.Intent{Kind: model.IntentGenerateDocument, Topic: topic}, true
}

// matchEmail only signals the intent; the details come from the compose form.
// "compose" on its own is not enough since "compose email" already contains "email".
func matchEmail(_, lower string) (model.Intent, bool) {
	if !utils.ContainsAny(lower, emailKeywords...) {
		return model.Intent{}, false
	}
	return model.Intent{Kind: model.IntentEmailCompose}, true
}

func matchYoutube(transcript, lower string) (model.Intent, bool) {
	if !strings.Contains(lower, "youtube") {
		return model.Intent{}, false
	}
	if !utils.ContainsAny(lower, youtubeVerbs...) && !strings.HasPrefix(lower, "youtube ") {
		return model.Intent{}, false
	}

	query, ok := utils.FirstSubmatch(youtubePatterns, transcript)
	if !ok {
		query = utils.StripPattern(youtubeKeywords, transcript)
	}
	if query == "" {
		return model.Intent{}, false
	}
	return model.Intent{Kind: model.IntentYoutubeSearch, Query: query}, true
}

func matchMaps(transcript, lower string) (model.Intent, bool) {
	query, ok := utils.FirstSubmatch(mapsPhrases, transcript)
	if !ok {
		if !strings.Contains(lower, " map") {
			return model.Intent{}, false
		}
		query = utils.StripPattern(mapsKeywords, transcript)
		query = utils.StripPattern(mapsTrailing, query)
	}
	if query == "" {
		return model.Intent{}, false
	}
	return model.Intent{Kind: model.IntentMapsSearch, Query: query}, true
}

func matchImage(transcript, _ string) (model.Intent, bool) {
	for _, prefix := range imagePrefixes {
		rest, ok := utils.CutPrefixFold(transcript, prefix+" ")
		if !ok {
			continue
		}
		prompt := strings.TrimSpace(rest)
		if prompt == "" {
			return model.Intent{}, false
		}
		return model.Intent{Kind: model.IntentGenerateImage, Prompt: prompt}, true
	}
	return model.Intent{}, false
}

func matchQuestion(transcript, _ string) (model.Intent, bool) {
	return matchSearchPrefixes(transcript, questionPrefixes)
}

func matchSearchFallback(transcript, _ string) (model.Intent, bool) {
	return matchSearchPrefixes(transcript, searchFallbackPrefixes)
}

// matchSearchPrefixes yields a general search for the first prefix present,
// unless the phrasing also reads as a maps request
func matchSearchPrefixes(transcript string, prefixes []string) (model.Intent, bool) {
	for _, prefix := range prefixes {
		rest, ok := utils.CutPrefixFold(transcript, prefix)
		if !ok {
			continue
		}
		query := strings.TrimSpace(rest)
		if query == "" || conflictsWithMaps(transcript, query) {
			return model.Intent{}, false
		}
		return model.Intent{Kind: model.IntentGeminiSearch, Query: query}, true
	}
	return model.Intent{}, false
}

func conflictsWithMaps(transcript, query string) bool {
	return utils.MatchesAny(mapsPhrases, transcript) || utils.MatchesAny(mapsPhrases, query)
}
