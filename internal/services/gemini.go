package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
)

const descriptionCacheTTL = 24 * time.Hour

// GeminiClient generates short event descriptions with the Gemini API.
// Generated text is cached in Redis so repeat views of the same event do not
// burn quota.
type GeminiClient struct {
	APIKey     string
	HTTPClient *http.Client
	Endpoint   string

	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewGeminiClient creates the client. redisClient may be nil, in which case
// every call goes to the API.
func NewGeminiClient(apiKey string, redisClient *redis.Client, logger *zap.SugaredLogger) *GeminiClient {
	return &GeminiClient{
		APIKey:   strings.TrimSpace(apiKey),
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent",
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		redis:  redisClient,
		logger: logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// EventDescription returns a five-sentence description for the event,
// reading through the Redis cache first.
func (c *GeminiClient) EventDescription(ctx context.Context, event models.EventInfo) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("gemini client not configured")
	}

	cacheKey := "event-description:" + event.ID
	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		} else if err != redis.Nil {
			c.logger.Warnw("description cache read failed", "event", event.ID, "error", err)
		}
	}

	description, err := c.generate(ctx, event)
	if err != nil {
		return "", err
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKey, description, descriptionCacheTTL).Err(); err != nil {
			c.logger.Warnw("description cache write failed", "event", event.ID, "error", err)
		}
	}
	return description, nil
}

func (c *GeminiClient) generate(ctx context.Context, event models.EventInfo) (string, error) {
	genre := event.Genre
	if genre == "" {
		genre = "Not specified"
	}
	prompt := fmt.Sprintf(`Create a concise 5-sentence description for %s's upcoming performance:

1. Introduce the artist and their significance in the music industry.
2. Describe the location and details of the upcoming event.
3. Briefly mention the artist's backstory or journey in music.
4. Highlight the artist's primary genre or style of music.
5. Explain why this artist is worth seeing live.

Use the following information:
Artist: %s
Genre: %s
Event Date: %s
Venue: %s
Location: %s`, event.Name, event.Name, genre, event.Date, event.Venue, event.Location)

	body, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"?key="+c.APIKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini generate http %d", resp.StatusCode)
	}

	var out geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
