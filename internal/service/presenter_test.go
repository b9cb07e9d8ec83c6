package service

import (
	"testing"

	"jarvis/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPresent(t *testing.T) {
	tests := []struct {
		name   string
		result model.ActionResult
		want   model.ActionView
	}{
		{
			name:   "youtube",
			result: model.ActionResult{Kind: model.ActionYoutubeSearch, Query: "lofi beats"},
			want: model.ActionView{
				OpenURL:     "https://www.youtube.com/results?search_query=lofi%20beats",
				Speech:      "Searching YouTube for lofi beats.",
				Title:       "YouTube Search",
				Description: `Searching for "lofi beats" on YouTube.`,
				Variant:     VariantDefault,
			},
		},
		{
			name:   "maps",
			result: model.ActionResult{Kind: model.ActionMapsSearch, Query: "the Eiffel Tower"},
			want: model.ActionView{
				OpenURL:     "https://www.google.com/maps/search/?api=1&query=the%20Eiffel%20Tower",
				Speech:      "Searching for the Eiffel Tower on Google Maps.",
				Title:       "Google Maps Search",
				Description: `Searching for "the Eiffel Tower" on Google Maps.`,
				Variant:     VariantDefault,
			},
		},
		{
			name:   "open website",
			result: model.ActionResult{Kind: model.ActionOpenWebsiteSearch, Query: "Wikipedia"},
			want: model.ActionView{
				OpenURL:     "https://www.google.com/search?q=Wikipedia",
				Speech:      "Okay, searching for Wikipedia.",
				Title:       "Open / Search",
				Description: `Searching for "Wikipedia" to open.`,
				Variant:     VariantDefault,
			},
		},
		{
			name:   "error",
			result: model.ErrorResult(MsgDocumentFailed),
			want: model.ActionView{
				Speech:      "An error occurred: " + MsgDocumentFailed,
				Title:       "Error",
				Description: MsgDocumentFailed,
				Variant:     VariantDestructive,
			},
		},
		{
			name:   "unknown",
			result: model.ActionResult{Kind: model.ActionUnknown, Message: model.UnknownIntentMessage},
			want: model.ActionView{
				Speech:      model.UnknownIntentMessage,
				Title:       "Request Not Understood",
				Description: model.UnknownIntentMessage,
				Variant:     VariantDefault,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Present(tt.result))
		})
	}
}

func TestPresent_DocumentAndImage(t *testing.T) {
	doc := Present(model.ActionResult{Kind: model.ActionGoogleDoc, Topic: "solar power", Content: "..."})
	assert.Equal(t, "https://docs.new", doc.OpenURL)
	assert.Contains(t, doc.Speech, "solar power")

	img := Present(model.ActionResult{Kind: model.ActionImageGenerated, Prompt: "a red fox", ImageDataURI: "data:image/png;base64,AA"})
	assert.Empty(t, img.OpenURL)
	assert.Equal(t, "a_red_fox.png", img.Filename)
	assert.Equal(t, "Image Generated", img.Title)
}

func TestPresentEmail(t *testing.T) {
	form := model.EmailFormData{Recipient: "sam@example.com", Subject: "Lunch plans", Intention: "invite"}

	view := PresentEmail(form, model.ActionResult{Kind: model.ActionEmailDraft, Draft: "Hi Sam"})
	assert.Equal(t, "https://mail.google.com/mail/?view=cm&fs=1&to=sam%40example.com&su=Lunch%20plans&body=Hi%20Sam", view.OpenURL)
	assert.Equal(t, "Email draft generated. Opening Gmail.", view.Speech)

	failed := PresentEmail(form, model.ErrorResult(MsgEmailFailed))
	assert.Empty(t, failed.OpenURL)
	assert.Equal(t, VariantDestructive, failed.Variant)
	assert.Equal(t, "Failed to compose email draft. "+MsgEmailFailed, failed.Speech)
}
