package ingest

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"tender-backend/internal/ai"
	"tender-backend/internal/shared/retry"
	"tender-backend/internal/shared/telemetry"
)

const aiRetryBaseDelay = 300 * time.Millisecond

// aiRetryPolicy gives language and embedding calls one extra attempt on
// transient failures, logging each retry against the document.
func aiRetryPolicy(op, documentID, requestID string) retry.Policy {
	return retry.Policy{
		Attempts:  2,
		Delay:     aiRetryBaseDelay,
		Retryable: shouldRetryAI,
		OnRetry: func(err error, attempt int) {
			telemetry.Warn(op, map[string]any{
				"request_id":  requestID,
				"document_id": documentID,
				"error":       sanitizeError(err),
			})
		},
	}
}

type retryingDetector struct {
	base       ai.LanguageDetector
	documentID string
	requestID  string
}

func newRetryingDetector(base ai.LanguageDetector, documentID, requestID string) ai.LanguageDetector {
	if base == nil {
		return nil
	}
	return retryingDetector{base: base, documentID: documentID, requestID: requestID}
}

func (r retryingDetector) DetectLanguage(ctx context.Context, sample string) (string, error) {
	return retry.Do(ctx, aiRetryPolicy("language retry", r.documentID, r.requestID),
		func(ctx context.Context) (string, error) {
			return r.base.DetectLanguage(ctx, sample)
		})
}

type retryingEmbedder struct {
	base       ai.Embedder
	documentID string
	requestID  string
}

func newRetryingEmbedder(base ai.Embedder, documentID, requestID string) ai.Embedder {
	if base == nil {
		return nil
	}
	return retryingEmbedder{base: base, documentID: documentID, requestID: requestID}
}

func (r retryingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return retry.Do(ctx, aiRetryPolicy("embedding retry", r.documentID, r.requestID),
		func(ctx context.Context) ([]float32, error) {
			return r.base.EmbedText(ctx, text)
		})
}

func shouldRetryAI(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "http status 429") || strings.Contains(msg, "rate limit") {
		return true
	}
	if strings.Contains(msg, "timeout") && (strings.Contains(msg, "openai") || strings.Contains(msg, "client.timeout")) {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof") {
		return true
	}

	return false
}
