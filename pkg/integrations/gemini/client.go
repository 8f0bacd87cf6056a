// Package gemini wraps the Gemini API for itinerary text and postcard
// images.
//
//	client, err := gemini.NewClient(ctx, apiKey, gemini.DefaultTextModel, gemini.DefaultImageModels)
//	text, err := client.GenerateJSON(ctx, prompt)
//	img, err := client.GenerateImage(ctx, prompt)
//
// A client built without an API key reports [Client.Configured] false and
// every call fails with [integrations.ErrNotConfigured].
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/draddo11/Holiday/pkg/integrations"
)

// DefaultTextModel writes itineraries.
const DefaultTextModel = "gemini-2.5-flash"

// DefaultImageModels are tried in order for postcard images.
var DefaultImageModels = []string{
	"nano-banana-pro-preview",
	"gemini-2.5-flash-image",
	"gemini-2.0-flash-exp-image-generation",
}

// ErrNoImage is returned when no image model produced inline image data.
var ErrNoImage = errors.New("no image in response")

// Generator is the subset of the genai models service the client uses.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Image is a generated image.
type Image struct {
	Data  []byte
	MIME  string
	Model string
}

// Client generates text and images.
type Client struct {
	models      Generator
	textModel   string
	imageModels []string
	Logger      *log.Logger
}

// NewClient connects to the Gemini API. An empty apiKey returns an
// unconfigured client rather than an error.
func NewClient(ctx context.Context, apiKey, textModel string, imageModels []string) (*Client, error) {
	c := &Client{textModel: textModel, imageModels: imageModels}
	if c.textModel == "" {
		c.textModel = DefaultTextModel
	}
	if len(c.imageModels) == 0 {
		c.imageModels = DefaultImageModels
	}
	if apiKey == "" {
		return c, nil
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	c.models = gc.Models
	return c, nil
}

// NewWithGenerator returns a client over g, for tests and alternate
// transports.
func NewWithGenerator(g Generator, textModel string, imageModels []string) *Client {
	c, _ := NewClient(context.Background(), "", textModel, imageModels)
	c.models = g
	return c
}

// Configured reports whether calls can reach the API.
func (c *Client) Configured() bool { return c != nil && c.models != nil }

// ImageModels returns the image models in the order they are tried.
func (c *Client) ImageModels() []string { return c.imageModels }

// GenerateText returns the text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.text(ctx, prompt, &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.7)})
}

// GenerateJSON asks for a JSON response and strips any Markdown fence
// the model wraps around it.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	text, err := c.text(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return StripFence(text), nil
}

func (c *Client) text(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: gemini key missing", integrations.ErrNotConfigured)
	}
	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.textModel, err)
	}
	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("%s: empty response", c.textModel)
	}
	return text, nil
}

// GenerateImage tries each image model in order and returns the first
// inline image. The error from the last model is returned when none
// succeeds.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: gemini key missing", integrations.ErrNotConfigured)
	}
	cfg := &genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}}

	var lastErr error
	for _, model := range c.imageModels {
		resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err == nil {
			if img := extractImage(resp); img != nil {
				img.Model = model
				return img, nil
			}
			err = ErrNoImage
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = fmt.Errorf("%s: %w", model, err)
		c.logger().Debug("image model failed", "model", model, "err", err)
	}
	return nil, lastErr
}

func (c *Client) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

func extractImage(resp *genai.GenerateContentResponse) *Image {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return &Image{Data: p.InlineData.Data, MIME: p.InlineData.MIMEType}
			}
		}
	}
	return nil
}

// StripFence removes a surrounding ```json ... ``` block, if any.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
