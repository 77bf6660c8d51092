// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence of tool calls.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResearchPrompt handles the kb-research MCP prompt. It walks the AI
// through search_content → fetch_article and asks for cited answers.
type ResearchPrompt struct {
	siteName   string
	listTool   string
	fetchParam string
}

// NewResearchPrompt creates a ResearchPrompt. listTool and fetchParam
// follow the active backend (list_articles/article_slug or
// list_categories/article_id).
func NewResearchPrompt(siteName, listTool, fetchParam string) *ResearchPrompt {
	return &ResearchPrompt{siteName: siteName, listTool: listTool, fetchParam: fetchParam}
}

// Definition returns the MCP prompt definition for registration.
func (p *ResearchPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("kb-research",
		mcp.WithPromptDescription(
			"Answer a question from "+p.siteName+". "+
				"Searches the knowledge base, reads the best matching articles "+
				"and answers with links to the sources.",
		),
		mcp.WithArgument("topic",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The question or topic to research"),
		),
	)
}

// Handle processes the kb-research prompt request.
func (p *ResearchPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := strings.TrimSpace(req.Params.Arguments["topic"])
	if topic == "" {
		return nil, fmt.Errorf("missing required argument: topic")
	}

	return &mcp.GetPromptResult{
		Description: "Research: " + topic,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please answer this using %s: %s\n\n"+
						"1. Call `search_content` with a short query for the topic\n"+
						"2. Call `fetch_article` (`%s`) on the one to three most relevant results\n"+
						"3. If nothing matches, call `%s` to see what exists and try a broader search\n"+
						"4. Answer from the article content only, and list the article URLs you used\n"+
						"5. If the knowledge base does not cover it, say so rather than guessing",
					p.siteName, topic, p.fetchParam, p.listTool,
				)),
			},
		},
	}, nil
}
