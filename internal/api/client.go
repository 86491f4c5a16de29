package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pairauth/internal/domain"
)

const (
	registerPath    = "/api/v1/auth/register"
	verifyPath      = "/api/v1/auth/verify"
	revokePath      = "/oauth/revoke"
	scanPath        = "/api/v1/device/qr/scan"
	approvePath     = "/api/v1/device/approve/" // + user_code
	approveFormPath = "/oauth/device/approve"
)

// maxErrBody caps how much of an error response body is kept for display.
const maxErrBody = 4 << 10

// Client talks JSON over HTTP to the backend.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a Client for the given base URL.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: httpClient}
}

// Register sends the verification code request for email.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegistrationResult, error) {
	raw, err := c.postJSON(ctx, registerPath, "", req, domain.StageRegister)
	if err != nil {
		return domain.RegistrationResult{}, err
	}
	var out domain.RegistrationResult
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return domain.RegistrationResult{}, err
		}
	}
	out.Raw = raw
	return out, nil
}

// Verify redeems a verification code and signed challenge for tokens.
func (c *Client) Verify(ctx context.Context, req domain.VerifyRequest) (domain.TokenResponse, error) {
	raw, err := c.postJSON(ctx, verifyPath, "", req, domain.StageVerify)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	var out domain.TokenResponse
	return out, json.Unmarshal(raw, &out)
}

// Revoke revokes a refresh token. The response body is ignored; a non-2xx
// status is still reported so the caller can log it.
func (c *Client) Revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{"token": {refreshToken}}
	_, err := c.postForm(ctx, revokePath, "", form, domain.StageRevoke)
	return err
}

// Scan reports a scanned pairing session to the backend. The raw body is
// returned for shape-tolerant parsing upstream.
func (c *Client) Scan(ctx context.Context, accessToken string, req domain.ScanRequest) ([]byte, error) {
	return c.postJSON(ctx, scanPath, accessToken, req, domain.StageScan)
}

// Approve confirms a pairing user code with the device signature. When the
// path variant is not deployed (404) it retries once against the form
// variant.
func (c *Client) Approve(ctx context.Context, accessToken, userCode string, req domain.ApproveRequest) ([]byte, error) {
	raw, err := c.postJSON(ctx, approvePath+url.PathEscape(userCode), accessToken, req, domain.StageApprove)
	if err == nil {
		return raw, nil
	}
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Status != http.StatusNotFound {
		return nil, err
	}
	form := url.Values{
		"user_code": {userCode},
		"signature": {req.MobileSignature},
	}
	return c.postForm(ctx, approveFormPath, accessToken, form, domain.StageApprove)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in any, stage string) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token, stage)
}

func (c *Client) postForm(ctx context.Context, path, token string, form url.Values, stage string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, token, stage)
}

func (c *Client) do(req *http.Request, token, stage string) ([]byte, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &domain.RequestError{
			Stage:  stage,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	return io.ReadAll(resp.Body)
}

// Compile-time assertion that Client implements domain.APIClient.
var _ domain.APIClient = (*Client)(nil)
