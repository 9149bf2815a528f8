package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chriskillpack/sceneui/describer"

	logging "github.com/ipfs/go-log"
	oagc "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultCaptionModel  = "gpt-4o"
	DefaultCategoryModel = "gpt-4"
)

var log = logging.Logger("openai")

type Options struct {
	APIKey        string
	CaptionModel  string // defaults to DefaultCaptionModel
	CategoryModel string // defaults to DefaultCategoryModel

	// BaseURL overrides the API endpoint, it must end in a slash.
	BaseURL string
}

type openai struct {
	oac           *oagc.Client
	apiKey        string
	captionModel  string
	categoryModel string
}

var _ describer.Describer = &openai{}

func Init(opts Options, httpClient *http.Client) *openai {
	if opts.CaptionModel == "" {
		opts.CaptionModel = DefaultCaptionModel
	}
	if opts.CategoryModel == "" {
		opts.CategoryModel = DefaultCategoryModel
	}

	ropts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		// One attempt per call, a failed request fails the pipeline
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		ropts = append(ropts, option.WithBaseURL(opts.BaseURL))
	}

	return &openai{
		oac:           oagc.NewClient(ropts...),
		apiKey:        opts.APIKey,
		captionModel:  opts.CaptionModel,
		categoryModel: opts.CategoryModel,
	}
}

func (o *openai) Name() string { return "openai" }

func (o *openai) IsHealthy() bool {
	// TODO: ping the models endpoint instead of trusting the key is valid
	return o.apiKey != ""
}

func (o *openai) DescribeImage(ctx context.Context, image string) (string, error) {
	params := oagc.ChatCompletionNewParams{
		Messages: oagc.F([]oagc.ChatCompletionMessageParamUnion{
			oagc.UserMessageParts(
				oagc.TextPart(describer.CaptionPrompt),
				oagc.ImagePart("data:image/jpeg;base64,"+image),
			),
		}),
		Model:     oagc.F(oagc.ChatModel(o.captionModel)),
		MaxTokens: oagc.Int(describer.CaptionMaxTokens),
	}

	content, err := o.complete(ctx, params)
	if err != nil {
		log.Errorf("caption request failed: %s", err)
		return "", fmt.Errorf("%w - %w", describer.ErrNoCaption, err)
	}

	caption := describer.CleanCaption(content)
	if caption == "" {
		return "", fmt.Errorf("%w - empty caption", describer.ErrNoCaption)
	}
	return caption, nil
}

func (o *openai) Categorize(ctx context.Context, description string) (string, error) {
	params := oagc.ChatCompletionNewParams{
		Messages: oagc.F([]oagc.ChatCompletionMessageParamUnion{
			oagc.UserMessage(describer.CategoryPrompt(description)),
		}),
		Model:     oagc.F(oagc.ChatModel(o.categoryModel)),
		MaxTokens: oagc.Int(describer.CategoryMaxTokens),
	}

	content, err := o.complete(ctx, params)
	if err != nil {
		log.Errorf("category request failed: %s", err)
		return "", fmt.Errorf("%w - %w", describer.ErrNoCategory, err)
	}

	category := describer.CleanCategory(content)
	if category == "" {
		return "", fmt.Errorf("%w - empty category", describer.ErrNoCategory)
	}
	return category, nil
}

// complete issues a single chat completion and returns the content of the
// first choice.
func (o *openai) complete(ctx context.Context, params oagc.ChatCompletionNewParams) (string, error) {
	resp, err := o.oac.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
