package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ilumen-report/config"
	"ilumen-report/models"

	"go.uber.org/zap"
)

const errorBodyLimit = 4096

// IlumenClient talks to the iLumen WebApi. Token and data requests use
// separate HTTP clients so each call type has its own timeout.
type IlumenClient struct {
	baseURL     string
	tokenClient *http.Client
	dataClient  *http.Client
	log         *zap.Logger
}

// NewIlumenClient constructs an IlumenClient from the pipeline settings.
func NewIlumenClient(cfg *config.ReportConfig, log *zap.Logger) *IlumenClient {
	if cfg == nil {
		cfg = &config.ReportConfig{
			BaseURL:      config.DefaultIlumenBaseURL,
			TokenTimeout: config.DefaultTokenTimeout,
			DataTimeout:  config.DefaultDataTimeout,
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IlumenClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		tokenClient: &http.Client{Timeout: cfg.TokenTimeout},
		dataClient:  &http.Client{Timeout: cfg.DataTimeout},
		log:         log,
	}
}

// RequestAccessToken exchanges the organization's client secret for a bearer
// token.
func (c *IlumenClient) RequestAccessToken(ctx context.Context, org config.Organization) (string, error) {
	if strings.TrimSpace(org.Secret) == "" {
		return "", &ConfigurationError{Field: org.SecretEnv, Reason: "missing required secret for organization " + org.Key}
	}

	reqURL, err := c.endpoint("/RequestAccessToken/", url.Values{"clientsecret": {org.Secret}})
	if err != nil {
		return "", &AuthenticationError{Organization: org.Key, Err: err}
	}

	started := time.Now()
	body, status, err := c.get(ctx, c.tokenClient, reqURL, "text/plain")
	c.log.Debug("token request finished",
		zap.String("organization", org.Key),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(started)))
	if err != nil {
		return "", &AuthenticationError{Organization: org.Key, StatusCode: status, Err: err}
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", &AuthenticationError{Organization: org.Key, StatusCode: status, Err: errors.New("empty access token")}
	}
	return token, nil
}

// GetDemographicData fetches the organization's demographic records.
func (c *IlumenClient) GetDemographicData(ctx context.Context, org config.Organization, token string) ([]models.OrganizationRecord, error) {
	reqURL, err := c.endpoint("/GetDemographicData", url.Values{"accesstoken": {token}})
	if err != nil {
		return nil, &FetchError{Organization: org.Key, Err: err}
	}

	started := time.Now()
	body, status, err := c.get(ctx, c.dataClient, reqURL, "application/json")
	c.log.Debug("demographic request finished",
		zap.String("organization", org.Key),
		zap.Int("status", status),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(started)))
	if err != nil {
		return nil, &FetchError{Organization: org.Key, StatusCode: status, Err: err}
	}

	var records []models.OrganizationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &FetchError{Organization: org.Key, StatusCode: status, Err: fmt.Errorf("decode demographic data: %w", err)}
	}
	return records, nil
}

func (c *IlumenClient) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// get performs a GET and returns the body of a 2xx response. Transport errors
// are stripped of the request URL, which carries credentials.
func (c *IlumenClient) get(ctx context.Context, client *http.Client, reqURL, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, 0, fmt.Errorf("%s request: %w", ue.Op, ue.Err)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, resp.StatusCode, fmt.Errorf("ilumen api error: status %d body %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
