package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/chriskillpack/sceneui/describer"

	"github.com/google/generative-ai-go/genai"
	logging "github.com/ipfs/go-log"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var log = logging.Logger("gemini")

type gemini struct {
	apiKey string
	model  string
}

var _ describer.Describer = &gemini{}

func Init(apiKey, model string) *gemini {
	if model == "" {
		model = DefaultModel
	}
	return &gemini{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

func (g *gemini) Name() string { return "gemini" }

func (g *gemini) IsHealthy() bool { return g.apiKey != "" }

func (g *gemini) DescribeImage(ctx context.Context, image string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return "", fmt.Errorf("%w - bad base64 image: %w", describer.ErrNoCaption, err)
	}

	resp, err := g.generate(ctx, describer.CaptionMaxTokens,
		genai.Text(describer.CaptionPrompt),
		genai.ImageData("jpeg", data),
	)
	if err != nil {
		log.Errorf("caption request failed: %s", err)
		return "", fmt.Errorf("%w - %w", describer.ErrNoCaption, err)
	}
	return captionFrom(resp)
}

func captionFrom(resp *genai.GenerateContentResponse) (string, error) {
	caption := describer.CleanCaption(firstText(resp))
	if caption == "" {
		return "", fmt.Errorf("%w - empty caption", describer.ErrNoCaption)
	}
	return caption, nil
}

func (g *gemini) Categorize(ctx context.Context, description string) (string, error) {
	resp, err := g.generate(ctx, describer.CategoryMaxTokens, genai.Text(describer.CategoryPrompt(description)))
	if err != nil {
		log.Errorf("category request failed: %s", err)
		return "", fmt.Errorf("%w - %w", describer.ErrNoCategory, err)
	}
	return categoryFrom(resp)
}

func categoryFrom(resp *genai.GenerateContentResponse) (string, error) {
	category := describer.CleanCategory(firstText(resp))
	if category == "" {
		return "", fmt.Errorf("%w - empty category", describer.ErrNoCategory)
	}
	return category, nil
}

// generate makes a single GenerateContent call.
func (g *gemini) generate(ctx context.Context, maxTokens int32, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if g.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.SetMaxOutputTokens(maxTokens)

	return m.GenerateContent(ctx, parts...)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
