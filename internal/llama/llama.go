package llama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/chriskillpack/sceneui/describer"

	logging "github.com/ipfs/go-log"
)

const (
	promptPreamble = `This is a conversation between User and Llama, a friendly chatbot. Llama is helpful, kind, honest, good at writing, and never fails to answer any requests immediately and with precision.

User:`
	promptSuffix = `
Llama:`

	imagePreamble = `A chat between a curious human and an artificial intelligence assistant. The assistant gives helpful, detailed, and polite answers to the human's questions.
USER:`
	imageSuffix = `
ASSISTANT:`

	imageID = 10
)

var log = logging.Logger("llama")

type jsonmap map[string]any

// These were lifted from the web inspector for the server UI
var defaultparams = jsonmap{
	"n_probs":           0,
	"temperature":       0.7,
	"stop":              []string{"</s>", "Llama:", "User:"},
	"repeat_last_n":     256,
	"repeat_penalty":    1.18,
	"top_k":             40,
	"top_p":             0.5,
	"tfs_z":             1,
	"typical_p":         1,
	"presence_penalty":  0,
	"frequency_penalty": 0,
	"mirostat":          0,
	"mirostat_tau":      5,
	"mirostat_eta":      0.1,
	"grammar":           "",
	"slot_id":           -1,
	"cache_prompt":      true,
}

type llama struct {
	srvAddr string
	seed    int

	client *http.Client
}

var _ describer.Describer = &llama{}

func Init(srvAddr string, seed int, httpClient *http.Client) *llama {
	return &llama{
		srvAddr: strings.TrimRight(srvAddr, "/"),
		seed:    seed,
		client:  httpClient,
	}
}

func (l *llama) Name() string { return "llama" }

func (l *llama) IsHealthy() bool {
	resp, err := l.client.Get(l.srvAddr)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (l *llama) DescribeImage(ctx context.Context, image string) (string, error) {
	prompt := fmt.Sprintf("%s[img-%d]%s%s", imagePreamble, imageID, describer.CaptionPrompt, imageSuffix)
	content, err := l.sendRequest(ctx, prompt, jsonmap{
		"n_predict": describer.CaptionMaxTokens,
		"image_data": []jsonmap{
			{
				"data": image, "id": imageID,
			},
		},
	})
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

func (l *llama) Categorize(ctx context.Context, description string) (string, error) {
	content, err := l.sendRequest(ctx, queryPrompt(describer.CategoryPrompt(description)), jsonmap{
		"n_predict": describer.CategoryMaxTokens,
	})
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

// Use this with a text prompt
func queryPrompt(prompt string) string {
	return promptPreamble + prompt + promptSuffix
}

// sendRequest posts a non-streaming completion request and concatenates the
// content of every response object up to the one marked stop.
func (l *llama) sendRequest(ctx context.Context, prompt string, keys jsonmap) (string, error) {
	data := maps.Clone(defaultparams)
	maps.Copy(data, keys)
	data["prompt"] = prompt
	data["stream"] = false
	data["seed"] = l.seed

	buf := bytes.NewBuffer(make([]byte, 0, 2_000_000)) // The buffer will be resized by Encode
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(&data)
	if err != nil {
		return "", err
	}
	br := bytes.NewReader(buf.Bytes())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.srvAddr+"/completion", br)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	content := new(bytes.Buffer)
	respbody := struct {
		Content string
		Stop    bool
	}{}

	lr := bufio.NewScanner(resp.Body)
	for !respbody.Stop {
		// Read in one line
		if !lr.Scan() {
			if err := lr.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("response ended before stop")
		}
		line := lr.Text()
		// The empty line appears after a JSON body
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewBufferString(line))
		if err := dec.Decode(&respbody); err != nil {
			return "", err
		}
		content.WriteString(respbody.Content)
	}

	return strings.TrimLeft(content.String(), " "), nil
}
