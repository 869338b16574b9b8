package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultVerifyURL is the standard reCAPTCHA v2 verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks a human-verification token supplied by a client.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Config holds configuration for the verification service client
type Config struct {
	SecretKey string
	VerifyURL string // defaults to DefaultVerifyURL
	Timeout   time.Duration
}

// HTTPVerifier calls an external reCAPTCHA-compatible siteverify endpoint.
type HTTPVerifier struct {
	config Config
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPVerifier creates a new HTTPVerifier
func NewHTTPVerifier(config Config, logger zerolog.Logger) *HTTPVerifier {
	if config.VerifyURL == "" {
		config.VerifyURL = DefaultVerifyURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &HTTPVerifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// ErrVerificationFailed is returned when the service rejects the token.
var ErrVerificationFailed = fmt.Errorf("captcha verification failed")

// verifyResponse mirrors the siteverify response body
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token against the verification service.
func (v *HTTPVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrVerificationFailed
	}

	form := url.Values{}
	form.Set("secret", v.config.SecretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error().Err(err).Msg("Captcha verification request failed")
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error().Int("status", resp.StatusCode).Msg("Captcha service returned non-OK status")
		return fmt.Errorf("verification service returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode verification response: %w", err)
	}

	if !body.Success {
		v.logger.Debug().Strs("errorCodes", body.ErrorCodes).Msg("Captcha token rejected")
		return ErrVerificationFailed
	}

	return nil
}

// DisabledVerifier accepts every token. Used in development and tests when
// no verification service is configured.
type DisabledVerifier struct{}

// Verify always succeeds
func (DisabledVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return nil
}
