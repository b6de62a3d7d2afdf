package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"clipper/internal/config"
)

// OpenAIClient backs both the Transcriber and Translator capabilities
// with the OpenAI API: Whisper for transcription, a chat model for
// per-cue subtitle translation.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	translateModel string
	timeout        time.Duration
}

// NewOpenAIClient builds a client from the transcription config section.
// Returns an error when no API key is configured.
func NewOpenAIClient(cfg config.Transcription) (*OpenAIClient, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("transcription requires an API key: set transcription.api_key or OPENAI_API_KEY")
	}
	clientConfig := openai.DefaultConfig(key)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientConfig.BaseURL = base
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientConfig),
		model:          cfg.Model,
		translateModel: cfg.TranslateModel,
		timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Transcribe runs Whisper over the media file and returns timed segments.
func (c *OpenAIClient) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: mediaPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, segment := range resp.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
	}
	return segments, nil
}

// Translate converts each cue's text to the target language, keeping
// timing untouched. A cue whose translation fails keeps its original
// text so the subtitle file stays complete.
func (c *OpenAIClient) Translate(ctx context.Context, segments []Segment, targetLanguage string) ([]Segment, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	system := fmt.Sprintf(
		"You are a professional subtitle translator. Translate each message to %s. "+
			"Keep it short and colloquial, matching spoken register. "+
			"Output ONLY the translated text, no explanations, no quotes.",
		languageName(targetLanguage),
	)

	translated := make([]Segment, len(segments))
	var failures int
	for i, segment := range segments {
		translated[i] = segment
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.translateModel,
			Temperature: 0.3,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: segment.Text},
			},
		})
		if err != nil {
			failures++
			continue
		}
		if len(resp.Choices) > 0 {
			if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
				translated[i].Text = strings.Trim(text, `"'`)
			}
		}
	}
	if failures == len(segments) && len(segments) > 0 {
		return nil, fmt.Errorf("translation failed for all %d cues", len(segments))
	}
	return translated, nil
}

func (c *OpenAIClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "zh-tw":
		return "Traditional Chinese (Taiwan style)"
	case "zh", "zh-cn":
		return "Simplified Chinese"
	case "en":
		return "English"
	case "ja":
		return "Japanese"
	case "ko":
		return "Korean"
	default:
		return code
	}
}
