package marketplace

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

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
)

const (
	apiPrefix        = "api/v1"
	errorBodyLimit   = 512
	requestIDHeader  = "X-Request-ID"
	acceptJSON       = "application/json"
	acceptArchive    = "application/gzip, application/octet-stream"
	searchQueryParam = "q"
)

// HTTPMarketplaceRepository implements repositories.MarketplaceRepository over the
// marketplace REST API.
type HTTPMarketplaceRepository struct {
	baseURL   *url.URL
	token     string
	userAgent string
	timeout   time.Duration
	client    *retryablehttp.Client
}

// NewMarketplaceRepository creates a marketplace client from the given settings.
func NewMarketplaceRepository(settings *entities.Settings) repositories.MarketplaceRepository {
	return NewHTTPMarketplaceRepository(settings, entities.NewDistribution())
}

// NewHTTPMarketplaceRepository creates a marketplace client. The settings are expected to have
// passed entities.ValidateSettings.
func NewHTTPMarketplaceRepository(
	settings *entities.Settings,
	distribution *entities.Distribution,
) *HTTPMarketplaceRepository {
	baseURL, err := url.Parse(strings.TrimSuffix(settings.Marketplace.URL, "/"))
	if err != nil {
		logger.Warnf("Invalid marketplace URL %q: %v", settings.Marketplace.URL, err)
		baseURL = &url.URL{}
	}

	// The timeout bounds waiting for response headers, never the archive body, which is
	// bounded by the caller's context instead.
	transport := cleanhttp.DefaultPooledTransport()
	transport.ResponseHeaderTimeout = settings.Marketplace.Timeout
	httpClient := &http.Client{Transport: transport}

	client := retryablehttp.NewClient()
	client.HTTPClient = httpClient
	client.RetryMax = settings.RetryCount()
	client.Logger = leveledLogger{}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPMarketplaceRepository{
		baseURL:   baseURL,
		token:     settings.Marketplace.Token,
		userAgent: distribution.UserAgent(),
		timeout:   settings.Marketplace.Timeout,
		client:    client,
	}
}

type searchResponse struct {
	Agents []entities.AgentListing `json:"agents"`
}

// Search lists agents matching query.
func (r *HTTPMarketplaceRepository) Search(ctx context.Context, query string) ([]entities.AgentListing, error) {
	endpoint := r.endpoint("agents")
	if query = strings.TrimSpace(query); query != "" {
		endpoint.RawQuery = url.Values{searchQueryParam: {query}}.Encode()
	}

	var body searchResponse
	if err := r.getJSON(ctx, endpoint, &body, entities.ErrAgentNotFound); err != nil {
		return nil, fmt.Errorf("failed to search marketplace: %w", err)
	}
	return body.Agents, nil
}

// GetAgent returns the catalog entry for name.
func (r *HTTPMarketplaceRepository) GetAgent(ctx context.Context, name string) (*entities.AgentListing, error) {
	var listing entities.AgentListing
	if err := r.getJSON(ctx, r.endpoint(agentPath(name)...), &listing, entities.ErrAgentNotFound); err != nil {
		return nil, fmt.Errorf("failed to get agent %q: %w", name, err)
	}
	if listing.Name == "" {
		listing.Name = name
	}
	return &listing, nil
}

// GetRelease returns the release metadata for name at version, resolving "" to the latest.
func (r *HTTPMarketplaceRepository) GetRelease(
	ctx context.Context,
	name, version string,
) (*entities.AgentRelease, error) {
	if version == "" {
		listing, err := r.GetAgent(ctx, name)
		if err != nil {
			return nil, err
		}
		if listing.LatestVersion == "" {
			return nil, fmt.Errorf("%w: %q has no published versions", entities.ErrReleaseNotFound, name)
		}
		version = listing.LatestVersion
	}

	segments := append(agentPath(name), "versions", version)
	var release entities.AgentRelease
	if err := r.getJSON(ctx, r.endpoint(segments...), &release, entities.ErrReleaseNotFound); err != nil {
		return nil, fmt.Errorf("failed to get release %s@%s: %w", name, version, err)
	}
	if release.Name == "" {
		release.Name = name
	}
	if release.Version == "" {
		release.Version = version
	}
	return &release, nil
}

// Download streams the archive referenced by release.ArchiveURL. Relative URLs resolve against
// the marketplace base URL. The token is only sent to the marketplace host itself.
func (r *HTTPMarketplaceRepository) Download(
	ctx context.Context,
	release entities.AgentRelease,
) (io.ReadCloser, error) {
	if release.ArchiveURL == "" {
		return nil, fmt.Errorf("release %s@%s has no archive URL", release.Name, release.Version)
	}
	target, err := url.Parse(release.ArchiveURL)
	if err != nil {
		return nil, fmt.Errorf("invalid archive URL %q: %w", release.ArchiveURL, err)
	}
	target = r.baseURL.ResolveReference(target)

	resp, err := r.do(ctx, target, acceptArchive)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s@%s: %w", release.Name, release.Version, err)
	}
	if statusErr := checkStatus(resp, entities.ErrReleaseNotFound); statusErr != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s@%s: %w", release.Name, release.Version, statusErr)
	}
	return resp.Body, nil
}

func (r *HTTPMarketplaceRepository) endpoint(segments ...string) *url.URL {
	return r.baseURL.JoinPath(append(strings.Split(apiPrefix, "/"), segments...)...)
}

func (r *HTTPMarketplaceRepository) getJSON(
	ctx context.Context,
	endpoint *url.URL,
	out any,
	notFound error,
) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.do(ctx, endpoint, acceptJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if statusErr := checkStatus(resp, notFound); statusErr != nil {
		return statusErr
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint.Redacted(), decodeErr)
	}
	return nil
}

func (r *HTTPMarketplaceRepository) do(ctx context.Context, target *url.URL, accept string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if r.token != "" && strings.EqualFold(target.Host, r.baseURL.Host) {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	logger.WithField("request_id", requestID).Debugf("GET %s", target.Redacted())
	resp, err := r.client.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, err
	}
	return resp, nil
}

// checkStatus maps HTTP status codes to errors. 404 becomes notFound.
func checkStatus(resp *http.Response, notFound error) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if resp.StatusCode == http.StatusNotFound {
		return notFound
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}

// StatusError reports a non-successful marketplace response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("marketplace returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("marketplace returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// agentPath splits "publisher/agent" names into escaped-per-segment path elements.
func agentPath(name string) []string {
	return append([]string{"agents"}, strings.Split(name, "/")...)
}
