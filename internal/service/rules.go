package service

import (
	"regexp"
)

// Pattern tables used by the classifier. All patterns are case-insensitive
// and run against the original transcript so captures keep user casing.

const openWebsitePrefix = "open "

var (
	documentVerbs = []string{"generate", "create"}
	documentNouns = []string{"document", "doc"}

	// documentStrict captures the topic from "generate a document about X"
	documentStrict = regexp.MustCompile(`(?i)(?:generate|create)(?: a| an)? (?:document|doc) (?:about|on) (.+)`)

	// documentLoose strips the request phrase when no about/on clause is present
	documentLoose = regexp.MustCompile(`(?i)(?:please\s+)?(?:generate|create)\s+(?:a\s+|an\s+)?(?:new\s+)?(?:google\s+)?(?:document|doc)s?\b(?:\s+(?:about|on|for|regarding))?`)
)

var emailKeywords = []string{"email", "mail"}

var (
	youtubeVerbs = []string{"search", "find", "look up"}

	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:search|find|look up)(?: on youtube| youtube)? for (.+)`),
		regexp.MustCompile(`(?i)(?:search|find|look up) (.+) on youtube`),
		regexp.MustCompile(`(?i)youtube (.+)`),
	}

	youtubeKeywords = regexp.MustCompile(`(?i)search|find|look up|on youtube|youtube|for`)
)

var (
	// mapsPhrases are evaluated in order; the first non-empty capture wins
	mapsPhrases = []*regexp.Regexp{
		regexp.MustCompile(`(?i)search for (.+) on maps?`),
		regexp.MustCompile(`(?i)find (.+) on (?:google )?maps?`),
		regexp.MustCompile(`(?i)where is (.+)`),
		regexp.MustCompile(`(?i)show me (.+) on the map`),
		regexp.MustCompile(`(?i)map of (.+)`),
		regexp.MustCompile(`(?i)navigate to (.+)`),
		regexp.MustCompile(`(?i)directions to (.+)`),
	}

	mapsKeywords = regexp.MustCompile(`(?i)search for|find|where is|show me|on the map|on maps|on google maps|map of|navigate to|directions to`)

	mapsTrailing = regexp.MustCompile(`(?i)\s*maps?$`)
)

// imagePrefixes are the phrases an image request must start with
var imagePrefixes = buildImagePrefixes()

func buildImagePrefixes() []string {
	var prefixes []string

	for _, verb := range []string{"create", "generate", "make", "draw"} {
		for _, object := range []string{
			"an image of", "a image of", "a picture of", "a photo of",
			"image of", "picture of", "photo of",
		} {
			prefixes = append(prefixes, verb+" "+object)
		}
	}

	for _, lead := range []string{"show me", "i want"} {
		for _, article := range []string{"a ", "an ", ""} {
			for _, noun := range []string{"image", "picture", "photo"} {
				prefixes = append(prefixes, lead+" "+article+noun+" of")
			}
		}
	}

	return prefixes
}

// questionPrefixes route general questions to the answer generator
var questionPrefixes = []string{
	"search for ",
	"what is ",
	"what are ",
	"tell me about ",
	"who is ",
	"who are ",
	"explain ",
	"define ",
}

// searchFallbackPrefixes catch bare search commands
var searchFallbackPrefixes = []string{"search ", "find "}
