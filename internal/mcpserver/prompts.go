package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptNames lists the prompts this server exposes. Each maps to an
// embedded prompts/<name>.md whose YAML frontmatter carries the
// description shown to clients.
var promptNames = []string{"deadcode-review", "dependency-health"}

// promptFile is a loaded prompt: its frontmatter description plus the
// markdown body served as the user message.
type promptFile struct {
	Name        string
	Description string
	Body        string
}

func (s *Server) registerPrompts() {
	for _, name := range promptNames {
		p, err := loadPrompt(name)
		if err != nil {
			continue
		}
		s.server.AddPrompt(&mcp.Prompt{Name: p.Name, Description: p.Description}, p.handle)
	}
}

// loadPrompt reads an embedded prompt file and splits the YAML
// frontmatter from the markdown body. A file without frontmatter is
// served whole, with an empty description.
func loadPrompt(name string) (*promptFile, error) {
	raw, err := promptFiles.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return nil, err
	}

	p := &promptFile{Name: name, Body: string(raw)}
	rest, found := bytes.CutPrefix(raw, []byte("---\n"))
	if !found {
		return p, nil
	}
	head, body, found := bytes.Cut(rest, []byte("\n---\n"))
	if !found {
		return p, nil
	}

	var fm struct {
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	p.Description = fm.Description
	p.Body = strings.TrimPrefix(string(body), "\n")
	return p, nil
}

func (p *promptFile) handle(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: p.Description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: p.Body},
			},
		},
	}, nil
}
