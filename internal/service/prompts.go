package service

import (
	"fmt"
)

// Prompts shared by the chat-based generators. Each asks for a JSON object
// whose single key matches the response struct so ParseAIJSON can decode it.

const documentSystemPrompt = `You are an expert in creating Google Docs documents.

Based on the topic provided, generate content for a Google Doc summarizing the topic.

Respond ONLY with valid JSON of the form {"documentContent": "<the document text>"}.`

const emailSystemPrompt = `You are an AI email assistant. Your job is to compose a draft email based on the provided information.

Compose a complete email draft that fulfills the intention. Be polite and professional.

Respond ONLY with valid JSON of the form {"emailDraft": "<the email body>"}.`

const answerSystemPrompt = `You are a helpful AI assistant. The user wants to find information about the following topic.
Provide a concise and informative answer based on their query.

Respond ONLY with valid JSON of the form {"searchResult": "<the answer>"}.`

// answerStreamSystemPrompt is used when the answer is streamed to the
// client as it is produced, so it asks for plain text
const answerStreamSystemPrompt = `You are a helpful AI assistant. The user wants to find information about the following topic.
Provide a concise and informative answer based on their query. Answer in plain text.`

func documentUserPrompt(req DocumentRequest) string {
	return fmt.Sprintf("Topic: %s", req.Topic)
}

func emailUserPrompt(req EmailDraftRequest) string {
	return fmt.Sprintf("Recipient: %s\nSubject: %s\nIntention: %s", req.Recipient, req.Subject, req.Intention)
}

func answerUserPrompt(req AnswerRequest) string {
	return fmt.Sprintf("User Query: %s", req.Query)
}
