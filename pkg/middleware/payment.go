package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"hospitality-booking/pkg/utils"

	"go.uber.org/zap"
)

// HeaderPaymentSignature carries the hex HMAC-SHA256 of the request body,
// keyed with the shared gateway secret.
const HeaderPaymentSignature = "X-Payment-Signature"

// maxCallbackBody caps the body read for signature checks.
const maxCallbackBody = 1 << 20

// PaymentSignature rejects callbacks whose body is not signed with secret.
// An empty secret rejects every request.
func PaymentSignature(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				logger.Error("Payment callback secret is not configured", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid payment signature")
				return
			}

			got, err := hex.DecodeString(strings.TrimSpace(r.Header.Get(HeaderPaymentSignature)))
			if err != nil || len(got) == 0 {
				logger.Warn("Payment callback without valid signature", zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid payment signature")
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
			if err != nil {
				utils.ResponseBadRequest(w, "Failed to read request body", nil)
				return
			}
			r.Body.Close()

			if !hmac.Equal(got, SignPayload(secret, body)) {
				logger.Warn("Payment callback signature mismatch", zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid payment signature")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// SignPayload returns the HMAC-SHA256 of body under secret.
func SignPayload(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
