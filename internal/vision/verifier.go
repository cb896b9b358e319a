package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	lru "github.com/hashicorp/golang-lru/v2"
	openai "github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"

	"github.com/vireodyne/protoctl/internal/app"
	"github.com/vireodyne/protoctl/internal/config"
	"github.com/vireodyne/protoctl/internal/execctx"
	"github.com/vireodyne/protoctl/internal/registry"
)

// modelReply is the JSON shape both the primary and fallback model are
// prompted to return.
type modelReply struct {
	SafeToProceed      bool     `json:"safe_to_proceed"`
	Confidence         float64  `json:"confidence"`
	Analysis           string   `json:"analysis"`
	UpdatedCoordinates *coords  `json:"updated_coordinates,omitempty"`
	SuggestedActions   []string `json:"suggested_actions,omitempty"`
}

type coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type cacheEntry struct {
	result    execctx.VerificationResult
	capturedAt time.Time
}

// Verifier implements registry.VisualVerifier (C6): it captures a
// screenshot, asks a primary vision model to judge it against a
// caller-supplied expectation, falls back to a secondary model on
// failure, and never returns an error to the caller — a verification
// failure degrades to a low-confidence verdict rather than aborting
// the run.
type Verifier struct {
	screen registry.ScreenCapture
	cfg    config.VisionConfig
	log    *app.Logger

	anthropicClient anthropic.Client
	openaiClient    openai.Client

	cache *lru.Cache[string, cacheEntry]
}

// NewVerifier builds a Verifier. screen supplies the bitmaps to judge;
// cfg carries model identifiers, API keys, and timeout/cache settings
// (internal/config's VisionConfig).
func NewVerifier(screen registry.ScreenCapture, cfg config.VisionConfig, log *app.Logger) (*Verifier, error) {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("vision: build cache: %w", err)
	}

	v := &Verifier{
		screen: screen,
		cfg:    cfg,
		log:    log.WithField("component", "vision"),
		cache:  cache,
	}

	var anthropicOpts []option.RequestOption
	if cfg.AnthropicAPIKey != "" {
		anthropicOpts = append(anthropicOpts, option.WithAPIKey(cfg.AnthropicAPIKey))
	}
	v.anthropicClient = anthropic.NewClient(anthropicOpts...)

	var openaiOpts []openaioption.RequestOption
	if cfg.OpenAIAPIKey != "" {
		openaiOpts = append(openaiOpts, openaioption.WithAPIKey(cfg.OpenAIAPIKey))
	}
	v.openaiClient = openai.NewClient(openaiOpts...)

	return v, nil
}

// Verify implements registry.VisualVerifier.
func (v *Verifier) Verify(ctx context.Context, req registry.VerifyRequest) (execctx.VerificationResult, error) {
	if !v.cfg.Enabled {
		return execctx.VerificationResult{
			SafeToProceed: true,
			Confidence:    1.0,
			Analysis:      "vision disabled: short-circuited to safe",
			ModelUsed:     "none",
		}, nil
	}

	key := cacheKey(req)
	ttl := time.Duration(v.cfg.CacheTTLMs) * time.Millisecond
	if ttl > 0 {
		if entry, ok := v.cache.Get(key); ok && time.Since(entry.capturedAt) < ttl {
			return entry.result, nil
		}
	}

	bmp, err := v.captureFor(ctx, req)
	if err != nil {
		result := execctx.VerificationResult{
			SafeToProceed: false,
			Confidence:    0,
			Analysis:      fmt.Sprintf("capture failed: %v", err),
			ModelUsed:     "none",
		}
		return result, nil
	}

	jpegData, mediaType, err := normalizeForModel(bmp)
	if err != nil {
		result := execctx.VerificationResult{
			SafeToProceed: false,
			Confidence:    0,
			Analysis:      fmt.Sprintf("image normalization failed: %v", err),
			ModelUsed:     "none",
		}
		return result, nil
	}

	timeout := time.Duration(v.cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	reply, model, err := v.callWithTimeout(ctx, timeout, v.cfg.PrimaryModel, jpegData, mediaType, req, v.callAnthropic)
	if err != nil {
		v.log.Warn("primary vision model failed, trying fallback: %v", err)
		reply, model, err = v.callWithTimeout(ctx, timeout, v.cfg.FallbackModel, jpegData, mediaType, req, v.callOpenAI)
	}

	var result execctx.VerificationResult
	if err != nil {
		v.log.Error("both vision models failed: %v", err)
		result = execctx.VerificationResult{
			SafeToProceed: false,
			Confidence:    0,
			Analysis:      fmt.Sprintf("verification unavailable: %v", err),
			ModelUsed:     "none",
		}
	} else {
		result = execctx.VerificationResult{
			SafeToProceed:    reply.SafeToProceed,
			Confidence:       reply.Confidence,
			Analysis:         reply.Analysis,
			SuggestedActions: reply.SuggestedActions,
			ModelUsed:        model,
		}
		if reply.UpdatedCoordinates != nil {
			result.UpdatedCoordinates = &execctx.Coordinates{X: reply.UpdatedCoordinates.X, Y: reply.UpdatedCoordinates.Y}
		}
	}

	if ttl > 0 {
		v.cache.Add(key, cacheEntry{result: result, capturedAt: time.Now()})
	}
	return result, nil
}

func (v *Verifier) captureFor(ctx context.Context, req registry.VerifyRequest) (registry.Bitmap, error) {
	if req.Region != nil {
		return v.screen.CaptureRegion(ctx, req.Region.X, req.Region.Y, req.Region.Width, req.Region.Height)
	}
	return v.screen.CaptureScreen(ctx)
}

type modelCaller func(ctx context.Context, model string, jpegData []byte, mediaType string, req registry.VerifyRequest) (modelReply, error)

func (v *Verifier) callWithTimeout(ctx context.Context, timeout time.Duration, model string, jpegData []byte, mediaType string, req registry.VerifyRequest, call modelCaller) (modelReply, string, error) {
	if model == "" {
		return modelReply{}, "", errors.New("vision: no model configured")
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := call(cctx, model, jpegData, mediaType, req)
	if err != nil {
		return modelReply{}, "", err
	}
	return reply, model, nil
}

func (v *Verifier) callAnthropic(ctx context.Context, model string, jpegData []byte, mediaType string, req registry.VerifyRequest) (modelReply, error) {
	b64 := base64.StdEncoding.EncodeToString(jpegData)
	prompt := verificationPrompt(req)

	msg, err := v.anthropicClient.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, b64),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return modelReply{}, fmt.Errorf("anthropic: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return parseReply(text.String())
}

func (v *Verifier) callOpenAI(ctx context.Context, model string, jpegData []byte, mediaType string, req registry.VerifyRequest) (modelReply, error) {
	b64 := base64.StdEncoding.EncodeToString(jpegData)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mediaType, b64)
	prompt := verificationPrompt(req)

	completion, err := v.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		return modelReply{}, fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return modelReply{}, errors.New("openai: empty response")
	}
	return parseReply(completion.Choices[0].Message.Content)
}

func verificationPrompt(req registry.VerifyRequest) string {
	return fmt.Sprintf(`You are verifying a UI automation checkpoint.

Context: %s
Expected: %s
Confidence threshold: %.2f

Reply with ONLY a JSON object of this exact shape, no prose outside it:
{"safe_to_proceed": bool, "confidence": number between 0 and 1, "analysis": string, "updated_coordinates": {"x": int, "y": int} or omitted, "suggested_actions": [string] or omitted}`,
		req.Context, req.Expected, req.ConfidenceThreshold)
}

func parseReply(text string) (modelReply, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return modelReply{}, fmt.Errorf("vision: no JSON object in reply: %q", text)
	}
	var reply modelReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return modelReply{}, fmt.Errorf("vision: malformed reply: %w", err)
	}
	return reply, nil
}

func cacheKey(req registry.VerifyRequest) string {
	region := "none"
	if req.Region != nil {
		region = fmt.Sprintf("%d,%d,%d,%d", req.Region.X, req.Region.Y, req.Region.Width, req.Region.Height)
	}
	return req.Context + "|" + req.Expected + "|" + region
}
