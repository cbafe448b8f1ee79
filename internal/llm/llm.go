package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model used for all completions.
	DefaultModel = "gemini-2.5-flash-preview-05-20"
)

// Client represents a client for interacting with the text-completion service.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
}

// TextGenerationOptions contains options for text generation
type TextGenerationOptions struct {
	SystemPrompt   string        // Optional system instruction
	MaxTokens      int32         // Maximum number of tokens to generate
	Temperature    float32       // Temperature for randomness (0.0 to 1.0)
	Model          string        // Model to use (optional, defaults to client's model)
	ResponseSchema *genai.Schema // Optional: schema for structured JSON output
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY or ai.gemini.api_key in the config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// GetModelName returns the model this client generates with.
func (c *Client) GetModelName() string {
	return c.modelName
}

// GenerateText generates text using the LLM with the specified options.
func (c *Client) GenerateText(ctx context.Context, prompt string, options TextGenerationOptions) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	var config *genai.GenerateContentConfig
	if options.SystemPrompt != "" || options.MaxTokens > 0 || options.Temperature > 0 || options.ResponseSchema != nil {
		config = &genai.GenerateContentConfig{}
		if options.SystemPrompt != "" {
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: options.SystemPrompt}},
			}
		}
		if options.MaxTokens > 0 {
			config.MaxOutputTokens = options.MaxTokens
		}
		if options.Temperature > 0 {
			temp := options.Temperature
			config.Temperature = &temp
		}
		if options.ResponseSchema != nil {
			config.ResponseMIMEType = "application/json"
			config.ResponseSchema = options.ResponseSchema
		}
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from LLM")
	}

	return text, nil
}

// GenerateReply produces a conversational reply for queries the product
// pipeline does not handle (shipping questions, general e-commerce help).
func (c *Client) GenerateReply(ctx context.Context, query string) (string, error) {
	systemPrompt := `You are an e-commerce assistant that helps users with their shopping needs.
You can help with product recommendations, answer questions about products,
and provide information about shipping, returns, and other e-commerce topics.
Be helpful, concise, and friendly.`

	return c.GenerateText(ctx, query, TextGenerationOptions{
		SystemPrompt: systemPrompt,
		MaxTokens:    512,
		Temperature:  0.7,
	})
}

// GeneratePassionIdeas asks the model for product niche ideas around an
// interest the user described.
func (c *Client) GeneratePassionIdeas(ctx context.Context, interest string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(`Suggest %d specific product ideas an online seller could build a store around,
based on this interest: %q.
Return one idea per line, no numbering, no commentary.`, count, interest)

	text, err := c.GenerateText(ctx, prompt, TextGenerationOptions{
		MaxTokens:   512,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate product ideas: %w", err)
	}

	var ideas []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			ideas = append(ideas, line)
		}
	}
	if len(ideas) > count {
		ideas = ideas[:count]
	}
	return ideas, nil
}

