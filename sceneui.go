package sceneui

import (
	"fmt"
	"net/http"

	"github.com/chriskillpack/sceneui/describer"
	"github.com/chriskillpack/sceneui/internal/gemini"
	"github.com/chriskillpack/sceneui/internal/llama"
	"github.com/chriskillpack/sceneui/internal/openai"

	logging "github.com/ipfs/go-log"
)

var log = logging.Logger("sceneui")

type InitOptions struct {
	OpenAI        bool
	OpenAIAPIKey  string
	CaptionModel  string
	CategoryModel string
	OpenAIBaseURL string

	Gemini       bool
	GeminiAPIKey string
	GeminiModel  string

	LlamaServer string
	LlamaSeed   int

	PublicHost string       // if empty uses DefaultPublicHost
	HttpClient *http.Client // if nil uses http.DefaultClient
}

type SceneUI struct {
	describer.Describer

	// PublicHost is the host:port written into web UI links
	PublicHost string
}

// New wraps an already constructed describer.
func New(d describer.Describer, publicHost string) *SceneUI {
	if publicHost == "" {
		publicHost = DefaultPublicHost
	}
	return &SceneUI{Describer: d, PublicHost: publicHost}
}

func Init(sio InitOptions) (*SceneUI, error) {
	httpClient := sio.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var n int
	if sio.OpenAI {
		n++
	}
	if sio.Gemini {
		n++
	}
	if sio.LlamaServer != "" {
		n++
	}
	switch n {
	case 0:
		return nil, fmt.Errorf("no backend selected")
	case 1:
		// no-op
	default:
		return nil, fmt.Errorf("multiple backends selected, only one allowed")
	}

	var d describer.Describer
	if sio.OpenAI {
		if sio.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai backend requires an API key")
		}
		d = openai.Init(openai.Options{
			APIKey:        sio.OpenAIAPIKey,
			CaptionModel:  sio.CaptionModel,
			CategoryModel: sio.CategoryModel,
			BaseURL:       sio.OpenAIBaseURL,
		}, httpClient)
	} else if sio.Gemini {
		if sio.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini backend requires an API key")
		}
		d = gemini.Init(sio.GeminiAPIKey, sio.GeminiModel)
	} else if sio.LlamaServer != "" {
		d = llama.Init(sio.LlamaServer, sio.LlamaSeed, httpClient)
	}

	return New(d, sio.PublicHost), nil
}
