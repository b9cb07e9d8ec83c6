package utils

import (
	"net/url"
	"strings"
)

// NewDocumentURL opens a blank Google Doc
const NewDocumentURL = "https://docs.new"

// EncodeURIComponent escapes s the way JavaScript's encodeURIComponent does
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	// encodeURIComponent leaves these unreserved marks as-is
	for _, r := range []struct{ from, to string }{
		{"%21", "!"}, {"%27", "'"}, {"%28", "("}, {"%29", ")"}, {"%2A", "*"},
	} {
		escaped = strings.ReplaceAll(escaped, r.from, r.to)
	}
	return escaped
}

// YouTubeSearchURL returns the YouTube results page for query
func YouTubeSearchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + EncodeURIComponent(query)
}

// MapsSearchURL returns the Google Maps search page for query
func MapsSearchURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + EncodeURIComponent(query)
}

// WebSearchURL returns the Google web search page for query
func WebSearchURL(query string) string {
	return "https://www.google.com/search?q=" + EncodeURIComponent(query)
}

// GmailComposeURL returns a Gmail compose window prefilled with the draft
func GmailComposeURL(recipient, subject, body string) string {
	return "https://mail.google.com/mail/?view=cm&fs=1" +
		"&to=" + EncodeURIComponent(recipient) +
		"&su=" + EncodeURIComponent(subject) +
		"&body=" + EncodeURIComponent(body)
}
