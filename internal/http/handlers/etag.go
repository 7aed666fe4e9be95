package handlers

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag encodes payload once so the validator covers the exact
// bytes sent.
func RespondJSONWithETag(ctx *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondFromError(ctx, err, "Could not encode response")
		return
	}

	RespondRawJSONWithETag(ctx, status, body)
}

// RespondRawJSONWithETag writes an already encoded body, e.g. a cached page.
// Clients must revalidate; a matching If-None-Match gets an empty 304.
func RespondRawJSONWithETag(ctx *gin.Context, status int, body []byte) {
	tag := etagFor(body)

	ctx.Header("ETag", tag)
	ctx.Header("Cache-Control", "no-cache")

	if matchesIfNoneMatch(ctx.GetHeader("If-None-Match"), tag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, "application/json; charset=utf-8", body)
}

// etagFor is a strong validator: the first 128 bits of the body's sha256.
func etagFor(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + base64.RawURLEncoding.EncodeToString(sum[:16]) + `"`
}

// matchesIfNoneMatch uses weak comparison, so W/"x" matches "x".
func matchesIfNoneMatch(header, tag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == tag {
			return true
		}
	}

	return false
}
