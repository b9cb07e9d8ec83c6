package service

import "encoding/json"

// NamedChunkParser is a StreamChunkParser that reports which provider it handles
type NamedChunkParser interface {
	StreamChunkParser
	Name() string
}

// DetectChunkParser picks the chunk parser for an API base URL.
// Unknown providers get the standard OpenAI format.
func DetectChunkParser(baseURL string) NamedChunkParser {
	switch {
	case IsNVIDIAProvider(baseURL):
		return &NVIDIAStreamChunkParser{}
	default:
		return &OpenAIStreamChunkParser{}
	}
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// Name implements NamedChunkParser
func (p *OpenAIStreamChunkParser) Name() string { return "openai" }

// ParseChunk converts a standard OpenAI chunk to a generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var rawChunk struct {
		Choices []struct {
			Delta struct {
				Role    string `json:"role,omitempty"`
				Content string `json:"content,omitempty"`
			} `json:"delta"`
			FinishReason *string `json:"finish_reason,omitempty"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(data, &rawChunk); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(rawChunk.Choices) > 0 {
		choice := rawChunk.Choices[0]
		chunk.Role = choice.Delta.Role
		chunk.Content = choice.Delta.Content
		chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""
	}

	return chunk, nil
}
