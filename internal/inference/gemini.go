package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gemini calls the Google generative-language REST API to categorize items
// and identify barcodes. Each request carries a bounded timeout so a slow
// service degrades to the caller's default instead of stalling an add.
type Gemini struct {
	client   *http.Client
	endpoint string
	model    string
	apiKey   string
	timeout  time.Duration
}

// Ensure Gemini implements Classifier
var _ Classifier = (*Gemini)(nil)

// NewGemini creates a Gemini classifier. endpoint is the API base URL
// (normally "https://generativelanguage.googleapis.com"); override it in
// tests.
func NewGemini(endpoint, model, apiKey string, timeout time.Duration) *Gemini {
	return &Gemini{
		client:   &http.Client{Timeout: timeout},
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
		timeout:  timeout,
	}
}

// Classify asks the model for a single short category label.
func (g *Gemini) Classify(ctx context.Context, itemName string) (string, error) {
	prompt := fmt.Sprintf(
		"Categorize the following grocery product into one short category "+
			"(for example: Dairy, Vegetables, Cleaning, Meat). "+
			"Answer with the category only, in the product's language: %s", itemName)

	text, err := g.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	category := strings.TrimSpace(text)
	if category == "" {
		return "", fmt.Errorf("%w: empty classification", ErrInference)
	}
	return category, nil
}

// IdentifyByBarcode asks the model to resolve a barcode into a product.
// The response is requested as JSON with exactly the two required fields.
func (g *Gemini) IdentifyByBarcode(ctx context.Context, barcode string) (Product, error) {
	prompt := fmt.Sprintf(
		"Identify the grocery product with barcode %s. "+
			`Answer with JSON only: {"name": "...", "category": "..."}. `+
			"If unknown, invent a fitting generic name and a plausible category.", barcode)

	text, err := g.generate(ctx, prompt, true)
	if err != nil {
		return Product{}, err
	}

	var product Product
	if err := json.Unmarshal([]byte(text), &product); err != nil {
		return Product{}, fmt.Errorf("%w: malformed identification: %v", ErrInference, err)
	}
	if product.Name == "" || product.Category == "" {
		return Product{}, fmt.Errorf("%w: incomplete identification", ErrInference)
	}
	return product, nil
}

// Request/response shapes for the generateContent endpoint, reduced to the
// fields this client uses.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) generate(ctx context.Context, prompt string, jsonResponse bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.1,
			MaxOutputTokens: 200,
		},
	}
	if jsonResponse {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrInference, resp.StatusCode, payload)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInference)
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
