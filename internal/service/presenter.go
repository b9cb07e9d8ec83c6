package service

import (
	"fmt"

	"jarvis/internal/model"
	"jarvis/internal/utils"
)

// Toast variants
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Present describes how a client should surface a dispatch result
func Present(result model.ActionResult) model.ActionView {
	view := model.ActionView{Variant: VariantDefault}

	switch result.Kind {
	case model.ActionEmailCompose:
		view.Speech = "Please provide email details."
		view.Title = "Email Details Needed"
		view.Description = "Fill in the recipient, subject and intention to draft your email."
	case model.ActionYoutubeSearch:
		view.OpenURL = utils.YouTubeSearchURL(result.Query)
		view.Speech = fmt.Sprintf("Searching YouTube for %s.", result.Query)
		view.Title = "YouTube Search"
		view.Description = fmt.Sprintf("Searching for %q on YouTube.", result.Query)
	case model.ActionMapsSearch:
		view.OpenURL = utils.MapsSearchURL(result.Query)
		view.Speech = fmt.Sprintf("Searching for %s on Google Maps.", result.Query)
		view.Title = "Google Maps Search"
		view.Description = fmt.Sprintf("Searching for %q on Google Maps.", result.Query)
	case model.ActionOpenWebsiteSearch:
		view.OpenURL = utils.WebSearchURL(result.Query)
		view.Speech = fmt.Sprintf("Okay, searching for %s.", result.Query)
		view.Title = "Open / Search"
		view.Description = fmt.Sprintf("Searching for %q to open.", result.Query)
	case model.ActionGoogleDoc:
		view.OpenURL = utils.NewDocumentURL
		view.Speech = fmt.Sprintf("Document content generated for topic: %s. Opening a new Google Doc. Please copy the content and paste it into the new document.", result.Topic)
		view.Title = "Document Generated"
		view.Description = fmt.Sprintf("Content for topic %q generated. A new Google Doc is opening. Copy the content below.", result.Topic)
	case model.ActionGeminiSearch:
		view.Speech = fmt.Sprintf("Here's what I found about %s.", result.Query)
		view.Title = fmt.Sprintf("Search Results for %q", result.Query)
		view.Description = "Displaying results from Gemini below."
	case model.ActionImageGenerated:
		view.Speech = fmt.Sprintf("Okay, I've generated an image for: %s.", result.Prompt)
		view.Title = "Image Generated"
		view.Description = fmt.Sprintf("Image for %q is displayed below.", result.Prompt)
		view.Filename = utils.ImageFilename(result.Prompt)
	case model.ActionUnknown:
		view.Speech = result.Message
		view.Title = "Request Not Understood"
		view.Description = result.Message
	case model.ActionError:
		view.Speech = "An error occurred: " + result.Message
		view.Title = "Error"
		view.Description = result.Message
		view.Variant = VariantDestructive
	default:
		view.Title = "Unsupported Result"
		view.Description = fmt.Sprintf("No presentation for result type %q.", result.Kind)
		view.Variant = VariantDestructive
	}

	return view
}

// PresentEmail describes the outcome of a compose-form submission. The Gmail
// link needs the form's recipient and subject alongside the draft.
func PresentEmail(form model.EmailFormData, result model.ActionResult) model.ActionView {
	if result.Kind != model.ActionEmailDraft {
		return model.ActionView{
			Speech:      "Failed to compose email draft. " + result.Message,
			Title:       "Email Generation Error",
			Description: result.Message,
			Variant:     VariantDestructive,
		}
	}

	return model.ActionView{
		OpenURL:     utils.GmailComposeURL(form.Recipient, form.Subject, result.Draft),
		Speech:      "Email draft generated. Opening Gmail.",
		Title:       "Email Draft Generated",
		Description: "Your email draft is ready below. A Gmail compose window has also opened.",
		Variant:     VariantDefault,
	}
}
