package quizsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/noah-isme/flashmind-analytics-api/internal/models"
)

const defaultMaxResponseBytes int64 = 8 << 20

// HTTPConfig configures HTTPSource.
type HTTPConfig struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves the client's own behaviour in place.
	Timeout time.Duration
	Client  *http.Client
	// MaxResponseBytes caps a response body. Zero selects 8 MiB.
	MaxResponseBytes int64
}

// HTTPSource talks to the quiz backend's REST API, forwarding the caller's
// bearer token.
type HTTPSource struct {
	baseURL  *url.URL
	client   *http.Client
	maxBytes int64
	logger   zerolog.Logger
}

// NewHTTPSource validates the base URL and builds the source.
func NewHTTPSource(cfg HTTPConfig, logger zerolog.Logger) (*HTTPSource, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse quiz api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("quiz api url %q must be absolute", cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout > 0 {
		copied := *client
		copied.Timeout = cfg.Timeout
		client = &copied
	}

	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}

	return &HTTPSource{
		baseURL:  base,
		client:   client,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "quiz_source_http").Logger(),
	}, nil
}

// ListQuizzes returns the calling professor's quizzes.
func (s *HTTPSource) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	body, err := s.get(ctx, "list quizzes", "quiz", "my-quizzes")
	if err != nil {
		return nil, err
	}

	elements := s.decodeArray(body, "list quizzes")
	quizzes := make([]models.Quiz, 0, len(elements))
	for idx, element := range elements {
		var quiz models.Quiz
		if err := json.Unmarshal(element, &quiz); err != nil {
			s.logger.Warn().Err(err).Int("index", idx).Msg("quiz record partially decoded")
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// ListParticipations returns every participation of one quiz in upstream order.
// Each element decodes independently; a malformed element yields a degraded
// record rather than failing the list.
func (s *HTTPSource) ListParticipations(ctx context.Context, quizID string) ([]models.Participation, error) {
	body, err := s.get(ctx, "list participations", "quiz", quizID, "participations")
	if err != nil {
		return nil, err
	}

	elements := s.decodeArray(body, "list participations")
	participations := make([]models.Participation, 0, len(elements))
	for idx, element := range elements {
		var participation models.Participation
		if err := json.Unmarshal(element, &participation); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID).Int("index", idx).Msg("participation record partially decoded")
		}
		participations = append(participations, participation)
	}
	return participations, nil
}

// GetQuiz returns one quiz with its questions and response options.
func (s *HTTPSource) GetQuiz(ctx context.Context, quizID string) (models.Quiz, error) {
	body, err := s.get(ctx, "get quiz", "quiz", quizID)
	if err != nil {
		return models.Quiz{}, err
	}

	var quiz models.Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return models.Quiz{}, fmt.Errorf("get quiz: decode: %w", err)
		}
		s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("quiz record partially decoded")
	}
	return quiz, nil
}

func (s *HTTPSource) get(ctx context.Context, operation string, segments ...string) ([]byte, error) {
	endpoint := s.baseURL.JoinPath(segments...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if correlation := CorrelationID(ctx); correlation != "" {
		req.Header.Set(CorrelationHeader, correlation)
	}
	if token := BearerToken(ctx); token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, s.maxBytes))
		return nil, &StatusError{Operation: operation, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", operation, ErrResponseTooLarge, s.maxBytes)
	}
	return body, nil
}

// decodeArray splits a JSON array into raw elements. Bodies that are not an
// array are treated as empty.
func (s *HTTPSource) decodeArray(body []byte, operation string) []json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("upstream body is not an array; treating as empty")
		return nil
	}
	return elements
}
