package service

import (
	"encoding/json"
	"strings"
)

// NVIDIAStreamChunkParser parses NVIDIA-hosted chunks, which carry
// reasoning_content for thinking models such as DeepSeek
type NVIDIAStreamChunkParser struct{}

// Name implements NamedChunkParser
func (p *NVIDIAStreamChunkParser) Name() string { return "nvidia" }

// ParseChunk converts an NVIDIA chunk to a generic StreamChunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var rawChunk struct {
		Choices []struct {
			Delta struct {
				Role             string  `json:"role,omitempty"`
				Content          string  `json:"content,omitempty"`
				ReasoningContent *string `json:"reasoning_content,omitempty"`
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
		if choice.Delta.ReasoningContent != nil {
			chunk.ThinkingContent = *choice.Delta.ReasoningContent
		}
		chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""
	}

	return chunk, nil
}

// IsNVIDIAProvider checks if the base URL is the NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.HasPrefix(strings.TrimRight(baseURL, "/"), "https://integrate.api.nvidia.com")
}
