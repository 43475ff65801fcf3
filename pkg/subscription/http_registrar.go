package subscription

import (
	"Fridge-Keeper/domain"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

// HTTPRegistrar talks to the /api/v1 push and notification endpoints.
type HTTPRegistrar struct {
	*http.Client
	BaseURL string
}

func NewHTTPRegistrar(baseURL string) *HTTPRegistrar {
	return &HTTPRegistrar{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	setDefaultRequestHeader(r)
	return r, nil
}

func setDefaultRequestHeader(r *http.Request) {
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Content-Type", "application/json")
}

func (c *HTTPRegistrar) do(ctx context.Context, method, path string, in any) (apiResponse, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apiResponse{}, errors.Wrapf(err, "error marshalling request body for %s", path)
		}
		body = bytes.NewReader(b)
	}

	req, err := newRequest(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return apiResponse{}, errors.Wrapf(err, "error creating request for %s", path)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return apiResponse{}, errors.Wrapf(err, "error doing request: %s %s", method, path)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("HTTPRegistrar: error closing response body, path: %s, err: %v", path, err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiResponse{}, errors.Wrapf(err, "error reading response body for %s", path)
	}

	var out apiResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return apiResponse{}, errors.Wrapf(err, "error unmarshalling response body for %s: %s", path, raw)
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return out, errors.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, out.Error)
	}
	return out, nil
}

func (c *HTTPRegistrar) Register(ctx context.Context, req domain.RegisterPushSubscriptionRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/push/subscriptions", req)
	return err
}

func (c *HTTPRegistrar) Welcome(ctx context.Context, endpoint string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/notifications/send", domain.SendNotificationRequest{
		Welcome:  true,
		Endpoint: endpoint,
	})
	return err
}

// Registered asks the server whether it holds a subscription for endpoint.
func (c *HTTPRegistrar) Registered(ctx context.Context, endpoint string) (bool, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/v1/push/subscriptions?endpoint="+url.QueryEscape(endpoint), nil)
	if err != nil {
		return false, err
	}

	var data domain.SubscriptionStatusResponse
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return false, errors.Wrap(err, "error unmarshalling subscription status")
	}
	return data.Subscribed, nil
}

// PublicKey fetches the VAPID public key. An unset key on the server yields
// an empty string and no error.
func (c *HTTPRegistrar) PublicKey(ctx context.Context) (string, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/v1/push/public-key", nil)
	if err != nil {
		if res.Error == domain.ErrNoPublicKey.Error() {
			return "", nil
		}
		return "", err
	}

	var data domain.PublicKeyResponse
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return "", errors.Wrap(err, "error unmarshalling public key")
	}
	return data.PublicKey, nil
}
