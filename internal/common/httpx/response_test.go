package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{errors.NotFoundf("order %q", "ORD001"), http.StatusNotFound},
		{errors.Annotate(errors.NotFoundf("order"), "complete"), http.StatusNotFound},
		{errors.NotValidf("empty order id"), http.StatusBadRequest},
		{errors.NewBadRequest(nil, "bad json"), http.StatusBadRequest},
		{errors.AlreadyExistsf("category %q", "BEEF"), http.StatusConflict},
		{errors.Trace(domain.ErrCategoryInUse), http.StatusConflict},
		{&domain.UpstreamPaymentError{StatusCode: 401, Err: errors.New("unauthorized")}, http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		code, _ := Classify(c.err)
		assert.Equal(t, c.code, code, c.err.Error())
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	var logs bytes.Buffer
	logger.Configure(logger.Options{Level: "info", Format: "json", Output: &logs})
	t.Cleanup(func() { logger.Configure(logger.Options{Level: "info", Format: "json"}) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/complete", nil)
	WriteError(rec, req, errors.New("open /data/orders.json: permission denied"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
	assert.Equal(t, "internal_error", body["type"])

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "request_failed", entry["action"])
	assert.Equal(t, "/api/orders/complete", entry["path"])
	assert.Contains(t, entry["error"].(map[string]any)["msg"], "permission denied")
}

func TestWriteErrorDoesNotLogClientErrors(t *testing.T) {
	var logs bytes.Buffer
	logger.Configure(logger.Options{Level: "info", Format: "json", Output: &logs})
	t.Cleanup(func() { logger.Configure(logger.Options{Level: "info", Format: "json"}) })

	WriteError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), errors.NotFoundf("order"))
	assert.Zero(t, logs.Len())
}

func TestWriteErrorNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/orders/ORD009", nil), errors.NotFoundf("order %q", "ORD009"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `order "ORD009" not found`, body["detail"])
	assert.EqualValues(t, 404, body["status"])
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		OrderID string `json:"orderId"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"orderId":"ORD001"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "ORD001", v.OrderID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := DecodeJSON(httptest.NewRecorder(), req, &v)
	assert.True(t, errors.Is(err, errors.BadRequest))
}
