package handler

import (
	"crypto/sha1" //nolint:gosec // CDN signature contract requires sha1
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type uploadSignatureResponse struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
}

// UploadSignature signs a direct-to-CDN upload request for the admin UI.
// The image bytes never pass through this service.
func (h *Handler) UploadSignature(c echo.Context) error {
	ts := time.Now().Unix()
	sum := sha1.Sum([]byte(fmt.Sprintf("timestamp=%d%s", ts, h.cdn.APISecret))) //nolint:gosec

	return c.JSON(http.StatusOK, uploadSignatureResponse{
		Timestamp: ts,
		Signature: hex.EncodeToString(sum[:]),
		APIKey:    h.cdn.APIKey,
		CloudName: h.cdn.CloudName,
	})
}
