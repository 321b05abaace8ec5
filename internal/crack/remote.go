package crack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/context"
)

// RemoteEstimator is the optional primary crack-time capability: given a
// password it returns per-attack-model hour counts. Implementations get a
// single attempt per estimate; retry policy below the transport level belongs
// to them.
type RemoteEstimator interface {
	CrackTimes(ctx context.Context, password string) (map[string]float64, error)
}

// OllamaEstimator asks a local Ollama-compatible endpoint for crack times and
// parses the JSON block out of the generated text.
type OllamaEstimator struct {
	url   string
	model string
	http  *retryablehttp.Client
}

// NewOllamaEstimator builds the estimator for a base URL such as
// http://localhost:11434 and a model name.
func NewOllamaEstimator(url, model string) *OllamaEstimator {
	client := retryablehttp.NewClient()
	// The generate call is already bounded by the caller's context; transport
	// retries stay low so a dead endpoint degrades quickly.
	client.Logger = nil
	client.RetryMax = 1
	client.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &OllamaEstimator{
		url:   strings.TrimSuffix(url, "/"),
		model: model,
		http:  client,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type crackTimesPayload struct {
	CrackTimes map[string]float64 `json:"crack_times"`
}

func crackTimePrompt(password string) string {
	return fmt.Sprintf(`Estimate the realistic time to crack the password '%s' from its complexity (length, character set, patterns) under these benchmarks: rainbow table attack with precomputed tables for common patterns, offline brute force at 100 billion hashes/second on a GPU cluster, and a dictionary attack over a 10 million word dictionary with common variations. Return pure JSON only:
{
  "crack_times": {
    "rainbow_table": hours,
    "offline_brute_force": hours,
    "dictionary_attack": hours
  }
}
Every value must be a plain non-negative number of hours. No explanations, comments, or markdown.`, password)
}

func (o *OllamaEstimator) CrackTimes(ctx context.Context, password string) (map[string]float64, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: crackTimePrompt(password),
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0.3,
			"num_predict": 500,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(res.Body)

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("generate request failed with status [%d] %s", res.StatusCode, res.Status)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var gen generateResponse
	if err = json.Unmarshal(resBody, &gen); err != nil {
		return nil, err
	}

	return parseCrackTimes(gen.Response)
}

// parseCrackTimes pulls the first balanced JSON object out of model text and
// decodes its crack_times mapping.
func parseCrackTimes(text string) (map[string]float64, error) {
	block, err := extractJSONBlock(text)
	if err != nil {
		return nil, err
	}

	var payload crackTimesPayload
	if err = json.Unmarshal(block, &payload); err != nil {
		return nil, err
	}
	if len(payload.CrackTimes) == 0 {
		return nil, fmt.Errorf("missing crack_times in response")
	}
	return payload.CrackTimes, nil
}

// extractJSONBlock finds the first brace-balanced object in text. Model output
// sometimes truncates the closing braces; an unterminated object has its
// unclosed braces appended and is retried before giving up.
func extractJSONBlock(text string) ([]byte, error) {
	depth := 0
	start := -1
	for i, c := range text {
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					candidate := []byte(text[start : i+1])
					if json.Valid(candidate) {
						return candidate, nil
					}
					return nil, fmt.Errorf("invalid JSON block in response")
				}
			}
		}
	}

	if start >= 0 && depth > 0 {
		candidate := strings.TrimSpace(text[start:]) + strings.Repeat("}", depth)
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}
	return nil, fmt.Errorf("no valid JSON block found")
}
