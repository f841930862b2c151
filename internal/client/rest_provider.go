package client

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

	"room-relay-service/internal/config"
	"room-relay-service/internal/domain"
	"room-relay-service/internal/metrics"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is kept on the error
const maxErrorBody = 4096

type generateTokenBody struct {
	UserID string `json:"user_id"`
}

type restProvider struct {
	baseURL     string
	credentials Credentials
	httpClient  *http.Client
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewRESTProvider creates a client for a 100ms-style REST API.
// A static api key wins over access key + app secret.
func NewRESTProvider(cfg config.ProviderConfig, logger *zap.Logger, m *metrics.Metrics) (RoomProvider, error) {
	var creds Credentials
	switch {
	case cfg.APIKey != "":
		creds = StaticCredentials(cfg.APIKey)
	case cfg.AccessKey != "" && cfg.AppSecret != "":
		creds = NewManagementCredentials(cfg.AccessKey, cfg.AppSecret, cfg.TokenTTL)
	default:
		return nil, errors.New("provider credential not configured")
	}

	return newRESTProvider(cfg.BaseURL, creds, cfg.Timeout, logger, m), nil
}

func newRESTProvider(baseURL string, creds Credentials, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *restProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &restProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// CreateRoom calls POST {base}/rooms
func (p *restProvider) CreateRoom(ctx context.Context) (domain.Descriptor, error) {
	desc, err := p.post(ctx, "create room", "/rooms", "/rooms", struct{}{})
	if err != nil {
		return nil, err
	}
	if desc.ID() == "" {
		return nil, &domain.ProviderError{Op: "create room", Err: domain.ErrMissingRoomID}
	}
	return desc, nil
}

// GenerateToken calls POST {base}/rooms/{roomId}/tokens
func (p *restProvider) GenerateToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error) {
	path := fmt.Sprintf("/rooms/%s/tokens", url.PathEscape(roomID))
	desc, err := p.post(ctx, "generate token", "/rooms/{id}/tokens", path, generateTokenBody{UserID: userID})
	if err != nil {
		return nil, err
	}
	if desc.Token() == "" {
		return nil, &domain.ProviderError{Op: "generate token", Err: domain.ErrMissingToken}
	}
	return desc, nil
}

func (p *restProvider) post(ctx context.Context, op, endpoint, path string, body interface{}) (domain.Descriptor, error) {
	bearer, err := p.credentials.Bearer()
	if err != nil {
		return nil, &domain.ProviderError{Op: op, Err: err}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.ProviderError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	reqURL := p.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &domain.ProviderError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := p.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	p.metrics.RecordExternalAPICall(endpoint, http.MethodPost, statusCode, duration, err)

	if err != nil {
		p.logger.Error("Failed to call provider",
			zap.String("op", op),
			zap.String("url", reqURL),
			zap.Error(err),
		)
		return nil, &domain.ProviderError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		p.logger.Warn("Provider returned non-success status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("url", reqURL),
		)
		return nil, &domain.ProviderError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        domain.ErrUnexpectedStatus,
		}
	}

	var desc domain.Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		p.logger.Error("Failed to decode provider response", zap.String("op", op), zap.Error(err))
		return nil, &domain.ProviderError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	p.logger.Debug("Provider call completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return desc, nil
}
