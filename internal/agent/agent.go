// Package agent implements the conversational lead agent. It routes
// each user query to the recommendation pipeline, a product detail
// lookup, a viability analysis of a previously shown product, or a
// plain model reply, and persists the exchange.
package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"trendscout/internal/core"
	"trendscout/internal/llm"
	"trendscout/internal/logger"
	"trendscout/internal/pipeline"
	"trendscout/internal/render"
	"trendscout/internal/store"
)

// Assistant is the language model capability the agent needs: free-form
// replies plus classification completions. *llm.Client satisfies it.
type Assistant interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
	GenerateReply(ctx context.Context, query string) (string, error)
}

// Intent is the routing category assigned to a query.
type Intent string

const (
	IntentRecommendation Intent = "product_recommendation"
	IntentProductInfo    Intent = "product_info"
	IntentGeneral        Intent = "general_ecommerce"
	IntentOther          Intent = "other"
)

var analysisKeywords = []string{
	"analyze product", "analyze item", "evaluate product", "assess product",
}

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

// Agent is the top-level query handler. It is single-session: one
// in-flight query at a time, with a cache of the last shown products so
// follow-ups like "analyze product #2" can resolve.
type Agent struct {
	assistant Assistant
	pipe      *pipeline.Pipeline
	store     *store.Store

	sessionID    string
	productCache map[int]core.Product
}

// New creates an agent. The store may be nil, in which case nothing is
// persisted.
func New(assistant Assistant, pipe *pipeline.Pipeline, st *store.Store) *Agent {
	return &Agent{
		assistant:    assistant,
		pipe:         pipe,
		store:        st,
		sessionID:    uuid.New().String(),
		productCache: make(map[int]core.Product),
	}
}

// SessionID returns the identifier for this conversation session.
func (a *Agent) SessionID() string {
	return a.sessionID
}

// ProcessQuery routes one user query and returns the rendered response.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	logger.Debug("processing query", "session", a.sessionID, "query", query)

	response := a.route(ctx, query)
	a.saveExchange(query, response)

	return response
}

func (a *Agent) route(ctx context.Context, query string) string {
	// Analysis follow-ups resolve against the cached list before any
	// model call.
	if isAnalysis, index := parseAnalysisRequest(query); isAnalysis && index > 0 {
		if product, ok := a.productCache[index]; ok {
			return render.ViabilityAnalysis(product)
		}
		return "I don't have information about that product. Please search for products first."
	}

	switch a.classifyIntent(ctx, query) {
	case IntentRecommendation:
		return a.handleRecommendation(ctx, query)
	case IntentProductInfo:
		return a.handleProductInfo(ctx, query)
	default:
		return a.handleGeneral(ctx, query)
	}
}

func (a *Agent) handleRecommendation(ctx context.Context, query string) string {
	result, err := a.pipe.Recommend(ctx, query, pipeline.DefaultResultCount, "")
	if err != nil {
		logger.Error("recommendation failed", err)
		return "Something went wrong while searching for products. Please try again."
	}

	// Re-key the cache so "analyze product #N" matches the displayed order.
	a.productCache = make(map[int]core.Product, len(result.Products))
	for i, product := range result.Products {
		a.productCache[i+1] = product
		a.saveProduct(product)
	}

	return render.RecommendationList(query, result.Products)
}

func (a *Agent) handleProductInfo(ctx context.Context, query string) string {
	if asin := ExtractASIN(query); asin != "" {
		product, err := a.pipe.Details(ctx, asin)
		if err == nil {
			a.saveProduct(product)
			if strings.Contains(strings.ToLower(query), "analyze") {
				return render.ViabilityAnalysis(product)
			}
			return render.ProductInfo(product)
		}
		logger.Warn("product detail lookup failed", "asin", asin, "error", err.Error())
	}

	// No usable identifier; fall back to the best search match.
	result, err := a.pipe.Recommend(ctx, query, 1, "")
	if err == nil && len(result.Products) > 0 {
		a.saveProduct(result.Products[0])
		return render.ProductInfo(result.Products[0])
	}

	return "I couldn't find information about that product. Could you provide more details?"
}

func (a *Agent) handleGeneral(ctx context.Context, query string) string {
	reply, err := a.assistant.GenerateReply(ctx, query)
	if err != nil {
		logger.Warn("general reply failed", "error", err.Error())
		return "I'm having trouble answering right now. Please try again in a moment."
	}
	return reply
}

const intentPrompt = `Categorize the following user query into exactly one of these categories:
- product_recommendation: User is looking for product suggestions or trending items
- product_info: User is asking about details of a specific product
- general_ecommerce: General e-commerce questions about shipping, returns, etc.
- other: Any other queries

User query: %q

Just return the category name, nothing else.`

// classifyIntent asks the model for a routing category. Any failure or
// unrecognized answer falls back to "other".
func (a *Agent) classifyIntent(ctx context.Context, query string) Intent {
	prompt := fmt.Sprintf(intentPrompt, query)

	raw, err := a.assistant.GenerateText(ctx, prompt, llm.TextGenerationOptions{
		SystemPrompt: "You categorize user queries into predefined categories.",
		MaxTokens:    50,
	})
	if err != nil {
		logger.Warn("intent classification failed", "error", err.Error())
		return IntentOther
	}

	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentRecommendation:
		return IntentRecommendation
	case IntentProductInfo:
		return IntentProductInfo
	case IntentGeneral:
		return IntentGeneral
	default:
		return IntentOther
	}
}

// parseAnalysisRequest detects "analyze product #2" style follow-ups
// and extracts the 1-based product index. Digits, "#N", and the words
// one through five are all accepted.
func parseAnalysisRequest(query string) (bool, int) {
	lower := strings.ToLower(query)

	isAnalysis := false
	for _, keyword := range analysisKeywords {
		if strings.Contains(lower, keyword) {
			isAnalysis = true
			break
		}
	}
	if !isAnalysis {
		return false, 0
	}

	words := strings.Fields(lower)
	for i, word := range words {
		if (word == "product" || word == "item") && i+1 < len(words) {
			if n, err := strconv.Atoi(words[i+1]); err == nil {
				return true, n
			}
		}
		if strings.HasPrefix(word, "#") {
			if n, err := strconv.Atoi(word[1:]); err == nil {
				return true, n
			}
		}
		if n, ok := wordNumbers[word]; ok {
			return true, n
		}
	}

	return true, 0
}

// ExtractASIN finds a catalog identifier in free text: a 10-character
// token mixing letters and digits.
func ExtractASIN(query string) string {
	for _, word := range strings.Fields(query) {
		word = strings.Trim(word, ".,!?\"'()")
		if len(word) != 10 {
			continue
		}
		hasLetter, hasDigit, clean := false, false, true
		for _, r := range word {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			default:
				clean = false
			}
		}
		if clean && hasLetter && hasDigit {
			return strings.ToUpper(word)
		}
	}
	return ""
}

func (a *Agent) saveExchange(query, response string) {
	if a.store == nil {
		return
	}
	if _, err := a.store.SaveConversation(query, response, map[string]string{"session_id": a.sessionID}); err != nil {
		logger.Warn("failed to save conversation", "error", err.Error())
	}
}

func (a *Agent) saveProduct(product core.Product) {
	if a.store == nil || product.ASIN == "" {
		return
	}
	if _, err := a.store.SaveProduct(product); err != nil {
		logger.Warn("failed to save product", "asin", product.ASIN, "error", err.Error())
	}
}
