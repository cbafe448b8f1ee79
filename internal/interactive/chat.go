// Package interactive runs the terminal chat loop around the lead agent.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"trendscout/internal/agent"
)

// ChatHandler manages the interactive chat session with the lead agent
type ChatHandler struct {
	agent   *agent.Agent
	scanner *bufio.Scanner
	history []ChatMessage
}

// ChatMessage represents a single message in the chat history
type ChatMessage struct {
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

// NewChatHandler creates a new chat handler
func NewChatHandler(a *agent.Agent) *ChatHandler {
	return &ChatHandler{
		agent:   a,
		scanner: bufio.NewScanner(os.Stdin),
		history: make([]ChatMessage, 0),
	}
}

// Start prints the session banner.
func (h *ChatHandler) Start() {
	fmt.Printf("\n💬 Product Research Chat Started\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Session: %s\n", h.agent.SessionID())
	fmt.Printf("\nCommands:\n")
	fmt.Printf("  /help    - Show available commands\n")
	fmt.Printf("  /save    - Save conversation to file\n")
	fmt.Printf("  /exit    - End chat session\n")
	fmt.Printf("  quit     - End chat session\n")
	fmt.Printf("\nAsk for trending products, e.g. \"find me trending water bottles under $25\".\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
}

// RunChatLoop runs the main interactive chat loop
func (h *ChatHandler) RunChatLoop(ctx context.Context) error {
	for {
		fmt.Print("You: ")
		if !h.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(h.scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if err := h.handleCommand(input); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		if strings.ToLower(input) == "quit" || strings.ToLower(input) == "exit" {
			fmt.Println("\n👋 Chat session ended. Goodbye!")
			break
		}

		h.processUserInput(ctx, input)
	}

	return h.scanner.Err()
}

// processUserInput routes the query through the agent and displays
// the response.
func (h *ChatHandler) processUserInput(ctx context.Context, input string) {
	h.history = append(h.history, ChatMessage{
		Role:      "user",
		Content:   input,
		Timestamp: time.Now(),
	})

	response := h.agent.ProcessQuery(ctx, input)

	h.history = append(h.history, ChatMessage{
		Role:      "assistant",
		Content:   response,
		Timestamp: time.Now(),
	})

	fmt.Printf("\nAssistant: %s\n\n", response)
}

// handleCommand processes chat commands
func (h *ChatHandler) handleCommand(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "/help":
		h.showHelp()
	case "/save":
		filename := "chat-log.md"
		if len(parts) > 1 {
			filename = strings.Join(parts[1:], " ")
		}
		return h.saveConversation(filename)
	case "/exit":
		fmt.Println("\n👋 Chat session ended. Goodbye!")
		os.Exit(0)
	default:
		fmt.Printf("Unknown command: %s. Type /help for available commands.\n", parts[0])
	}

	return nil
}

// showHelp displays available commands
func (h *ChatHandler) showHelp() {
	fmt.Println("\n📚 Available Commands:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("  /help          - Show this help message")
	fmt.Println("  /save [file]   - Save conversation to file (default: chat-log.md)")
	fmt.Println("  /exit          - End chat session")
	fmt.Println("  quit           - End chat session")
	fmt.Println("\nYou can ask for:")
	fmt.Println("  - Trending product recommendations, with filters like price or margin")
	fmt.Println("  - Details about a specific product by its ASIN")
	fmt.Println("  - An e-commerce analysis: \"analyze product #2\"")
	fmt.Println("  - General e-commerce questions")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
}

// saveConversation saves the chat history to a file
func (h *ChatHandler) saveConversation(filename string) error {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("# Chat Log - Session %s\n\n", h.agent.SessionID()))
	content.WriteString(fmt.Sprintf("**Date:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	content.WriteString("## Conversation\n\n")
	for _, msg := range h.history {
		if msg.Role == "user" {
			content.WriteString(fmt.Sprintf("**You:** %s\n\n", msg.Content))
		} else {
			content.WriteString(fmt.Sprintf("**Assistant:** %s\n\n", msg.Content))
		}
	}

	if err := os.WriteFile(filename, []byte(content.String()), 0644); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	fmt.Printf("💾 Conversation saved to: %s\n", filename)
	return nil
}
