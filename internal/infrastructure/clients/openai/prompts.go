package openai

const (
	defaultMaxOutputTokens = 400
	defaultTemperature     = 0.3
)

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
}

func buildRequest(model, instruction, userPrompt string, maxOutputTokens int) responsesRequest {
	messages := make([]inputMessage, 0, 2)
	if instruction != "" {
		messages = append(messages, inputMessage{Role: "system", Content: instruction})
	}
	messages = append(messages, inputMessage{Role: "user", Content: userPrompt})

	return responsesRequest{
		Model:           model,
		Input:           messages,
		Temperature:     defaultTemperature,
		MaxOutputTokens: maxOutputTokens,
	}
}
