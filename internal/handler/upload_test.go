package handler_test

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/config"
	"github.com/avdeyev/bookhub/internal/handler"
)

func TestHandler_UploadSignature(t *testing.T) {
	t.Parallel()
	cdn := config.Cloudinary{
		CloudName: "bookhub",
		APIKey:    "key123",
		APISecret: "s3cret",
	}
	h := handler.New(nil, nil, nil, cdn, zap.NewNop())

	e := echo.New()
	e.POST("/upload/signature", h.UploadSignature)

	r := httptest.NewRequest(http.MethodPost, "/upload/signature", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Timestamp int64  `json:"timestamp"`
		Signature string `json:"signature"`
		APIKey    string `json:"apiKey"`
		CloudName string `json:"cloudName"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, cdn.APIKey, resp.APIKey)
	require.Equal(t, cdn.CloudName, resp.CloudName)
	require.NotZero(t, resp.Timestamp)

	sum := sha1.Sum([]byte(fmt.Sprintf("timestamp=%d%s", resp.Timestamp, cdn.APISecret))) //nolint:gosec
	require.Equal(t, hex.EncodeToString(sum[:]), resp.Signature)
}
