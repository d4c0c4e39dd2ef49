package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/models"
)

// RandomPath is the question-source endpoint returning a random set.
const RandomPath = "/api/questions/random"

const maxErrorBody = 1024

// Client fetches question sets from a remote question source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchRandom requests a random question set. Every failure is returned as
// an *errors.SourceError.
func (c *Client) FetchRandom(ctx context.Context) ([]models.Question, error) {
	url := c.baseURL + RandomPath
	log := logger.FromContext(ctx).WithPrefix("questions").WithField("url", url)

	log.Debug("fetching random question set")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, apperrors.NewTransportError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("failed to fetch question set: %v", err)
		return nil, apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug("question set response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("question set request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, apperrors.NewStatusError(resp.StatusCode, string(body))
	}

	var out []models.Question
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn("failed to decode question set: %v", err)
		return nil, apperrors.NewInvalidResponseError(fmt.Errorf("decode question set: %w", err))
	}
	if err := models.ValidateQuestionSet(out); err != nil {
		log.Warn("question source returned an unusable set: %v", err)
		return nil, apperrors.NewInvalidResponseError(err)
	}

	log.Info("fetched %d questions", len(out))
	return out, nil
}
