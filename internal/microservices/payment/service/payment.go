package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/domain"
)

const (
	defaultCurrency = "PHP"
	maxErrorBody    = 4 << 10
	maxReplyBody    = 1 << 20
	defaultTimeout  = 10 * time.Second
)

var (
	centavos    = decimal.NewFromInt(100)
	errRejected = errors.New("payment provider rejected the request")
)

type IntentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
}

type IntentResponse struct {
	Success       bool            `json:"success"`
	PaymentIntent json.RawMessage `json:"paymentIntent"`
	ClientKey     string          `json:"clientKey"`
	PublicKey     string          `json:"publicKey,omitempty"`
}

type PaymentServiceInterface interface {
	CreateIntent(ctx context.Context, req IntentRequest) (IntentResponse, error)
}

// PaymentService creates payment intents on a PayMongo compatible API.
type PaymentService struct {
	cfg  config.PaymentConfig
	http Doer
	log  *logger.Logger
}

// NewPaymentService builds the service on client, or on a juju http client
// that records every round trip when client is nil.
func NewPaymentService(cfg config.PaymentConfig, client Doer) PaymentServiceInterface {
	log := logger.New("payment-service")
	if client == nil {
		client = newHTTPClient(log)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &PaymentService{cfg: cfg, http: client, log: log}
}

type intentAttributes struct {
	Amount               int64          `json:"amount"`
	PaymentMethodAllowed []string       `json:"payment_method_allowed"`
	PaymentMethodOptions map[string]any `json:"payment_method_options"`
	Currency             string         `json:"currency"`
	Description          string         `json:"description"`
	CaptureType          string         `json:"capture_type"`
}

type intentEnvelope struct {
	Data struct {
		Attributes intentAttributes `json:"attributes"`
	} `json:"data"`
}

// intent is the part of the provider's reply we read; the rest is passed
// through untouched.
type intent struct {
	ID         string `json:"id"`
	Attributes struct {
		ClientKey string `json:"client_key"`
	} `json:"attributes"`
}

// ToCentavos converts an amount in pesos to the smallest currency unit.
func ToCentavos(amount decimal.Decimal) int64 {
	return amount.Mul(centavos).Round(0).IntPart()
}

func (ps *PaymentService) CreateIntent(ctx context.Context, req IntentRequest) (IntentResponse, error) {
	if !req.Amount.IsPositive() || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.PaymentMethod) == "" {
		return IntentResponse{}, errors.NewNotValid(nil, "missing required fields: amount, description, paymentMethod")
	}
	if ps.cfg.SecretKey == "" {
		return IntentResponse{}, &domain.UpstreamPaymentError{Err: errors.New("not configured")}
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var body intentEnvelope
	body.Data.Attributes = intentAttributes{
		Amount:               ToCentavos(req.Amount),
		PaymentMethodAllowed: []string{req.PaymentMethod},
		PaymentMethodOptions: map[string]any{"card": map[string]string{"request_three_d_secure": "automatic"}},
		Currency:             currency,
		Description:          req.Description,
		CaptureType:          "automatic",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return IntentResponse{}, errors.Trace(err)
	}

	ctx, cancel := context.WithTimeout(ctx, ps.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.cfg.BaseURL+"/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return IntentResponse{}, errors.Trace(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(ps.cfg.SecretKey, "")

	resp, err := ps.http.Do(httpReq)
	if err != nil {
		ps.log.Error("payment_intent_failed", err, nil)
		return IntentResponse{}, &domain.UpstreamPaymentError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBody))
	if err != nil {
		return IntentResponse{}, &domain.UpstreamPaymentError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		ps.log.Error("payment_intent_rejected", errors.New("non-2xx reply"), map[string]any{
			"status": resp.StatusCode,
			"body":   strings.TrimSpace(string(raw)),
		})
		return IntentResponse{}, &domain.UpstreamPaymentError{StatusCode: resp.StatusCode, Err: errRejected}
	}

	var (
		envelope struct {
			Data json.RawMessage `json:"data"`
		}
		pi intent
	)
	if json.Unmarshal(raw, &envelope) != nil || json.Unmarshal(envelope.Data, &pi) != nil || pi.ID == "" {
		return IntentResponse{}, &domain.UpstreamPaymentError{StatusCode: resp.StatusCode, Err: errors.New("unexpected payment intent response")}
	}

	ps.log.Info("payment_intent_created", map[string]any{
		"intent_id": pi.ID,
		"amount":    body.Data.Attributes.Amount,
		"currency":  currency,
		"method":    req.PaymentMethod,
	})
	return IntentResponse{
		Success:       true,
		PaymentIntent: envelope.Data,
		ClientKey:     pi.Attributes.ClientKey,
		PublicKey:     ps.cfg.PublicKey,
	}, nil
}
