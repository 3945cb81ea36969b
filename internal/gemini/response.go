package gemini

import "encoding/json"

// NoTextFallback is returned by FirstText when the response carries no text.
const NoTextFallback = "No response text available."

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// FirstText returns the first candidate's first text part, or
// NoTextFallback when any level is absent or the body does not parse.
func FirstText(body []byte) string {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return NoTextFallback
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return NoTextFallback
	}

	if text := resp.Candidates[0].Content.Parts[0].Text; text != "" {
		return text
	}

	return NoTextFallback
}
