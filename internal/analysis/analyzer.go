// Package analysis extracts a structured lead profile from raw lead text by
// calling a Bedrock model directly, without going through the agent.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/wolfman30/synapse-leads/pkg/logging"
)

const analysisMaxTokens = 1000

// ConverseAPI is the subset of the Bedrock runtime client used by Analyzer.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// LeadProfile is the structured data the model extracts from raw lead text.
type LeadProfile struct {
	Priority     string `json:"priority"`
	Company      string `json:"company"`
	Domain       string `json:"domain"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Description  string `json:"description"`
}

// Analyzer runs lead analysis through the Converse API.
type Analyzer struct {
	api     ConverseAPI
	modelID string
	logger  *logging.Logger
}

// NewAnalyzer creates an Analyzer for the given model.
func NewAnalyzer(api ConverseAPI, modelID string, logger *logging.Logger) *Analyzer {
	if api == nil {
		panic("analysis: bedrock converse client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Analyzer{api: api, modelID: modelID, logger: logger}
}

// Analyze asks the model to profile the lead. Any model or parse failure
// degrades to a default profile built from the raw text, never an error; lead
// processing must not stall on analysis.
func (a *Analyzer) Analyze(ctx context.Context, leadData string) LeadProfile {
	profile, err := a.analyze(ctx, leadData)
	if err != nil {
		a.logger.Error("lead analysis failed, using fallback profile", "error", err)
		return fallbackProfile(leadData)
	}
	return profile
}

func (a *Analyzer) analyze(ctx context.Context, leadData string) (LeadProfile, error) {
	prompt := fmt.Sprintf(`Analyze this lead and extract structured data:
%s

Return JSON with: priority, company, domain, contact_name, contact_email, contact_phone, description`, leadData)

	out, err := a.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(a.modelID),
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens: aws.Int32(analysisMaxTokens),
		},
	})
	if err != nil {
		return LeadProfile{}, fmt.Errorf("analysis: converse: %w", err)
	}

	text, err := extractOutputText(out)
	if err != nil {
		return LeadProfile{}, err
	}
	return parseProfile(text, leadData)
}

// parseProfile pulls the first JSON object out of the model text. Models
// often wrap the object in prose, so it slices between the outermost braces.
func parseProfile(text, leadData string) (LeadProfile, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fallbackProfile(leadData), nil
	}

	var profile LeadProfile
	if err := json.Unmarshal([]byte(text[start:end+1]), &profile); err != nil {
		return LeadProfile{}, fmt.Errorf("analysis: decode profile: %w", err)
	}
	return profile, nil
}

// fallbackProfile is the default when the model cannot be reached or returns
// nothing usable.
func fallbackProfile(leadData string) LeadProfile {
	description := leadData
	if len(description) > 200 {
		description = description[:200]
	}
	return LeadProfile{
		Priority:    "Medium",
		Company:     "Unknown",
		ContactName: "Unknown",
		Description: description,
	}
}

func extractOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("analysis: bedrock response is nil")
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("analysis: bedrock response did not include a message output")
	}

	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("analysis: bedrock response contained no text content blocks")
	}
	return text, nil
}
