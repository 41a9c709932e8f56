package idp

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

	"github.com/sethvargo/go-retry"
)

// providerErrorBody is the generic {"error": "...", "error_description":
// "..."} shape returned by both the OIDC token endpoint and the admin API
// on failure.
type providerErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// mapStatus translates a provider HTTP status into the module's error
// taxonomy.
func mapStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrRealmNotFound
	case http.StatusConflict:
		return ErrConflict
	}

	var parsed providerErrorBody
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.ErrorDescription
	if msg == "" {
		msg = parsed.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("%w: status %d: %s", ErrExternalServiceFailure, status, msg)
}

// doJSON performs req, decoding a 2xx JSON body into out (if non-nil) and
// mapping any non-2xx response through mapStatus.
func (r *RealmAdapter) doJSON(req *http.Request, out any) error {
	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExternalServiceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrExternalServiceFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatus(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// getJSON issues a retried GET (idempotent) and decodes the
// JSON response into out.
func (r *RealmAdapter) getJSON(ctx context.Context, url string, bearer string, out any) error {
	return withRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		if err := r.doJSON(req, out); err != nil {
			if errors.Is(err, ErrExternalServiceFailure) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// postForm issues a single (non-retried: token grants are never idempotent
// form-encoded POST.
func (r *RealmAdapter) postForm(ctx context.Context, url string, form urlValues, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.doJSON(req, out)
}

// postJSON issues a single JSON POST (admin create endpoints are not
// idempotent and are never retried on ambiguous failure).
func (r *RealmAdapter) postJSON(ctx context.Context, url string, bearer string, payload any, out any) error {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return r.doJSON(req, out)
}

// putJSON issues a single JSON PUT.
func (r *RealmAdapter) putJSON(ctx context.Context, url string, bearer string, payload any) error {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return r.doJSON(req, nil)
}

// deleteRequest issues a single DELETE with an optional bearer token.
func (r *RealmAdapter) deleteRequest(ctx context.Context, url string, bearer string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return r.doJSON(req, nil)
}

// urlValues is a thin alias over url.Values so callers don't need to
// import net/url directly when building form bodies.
type urlValues = url.Values
