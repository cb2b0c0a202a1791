package paymentgateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платёжного шлюза: создание заказов и проверка подписи платежей
// Суммы передаются в минимальных единицах валюты (пайсы для INR)
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного шлюза
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateOrder создает заказ в шлюзе на указанную сумму
// receipt - внутренний идентификатор для сверки (уникален на каждый чекаут)
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	url := fmt.Sprintf("%s/v1/orders", c.baseURL)

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("CreateOrder: gateway unavailable: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrOrderRejected, errResp.Error.Code, errResp.Error.Description)
		}
		return nil, ErrOrderRejected
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("CreateOrder: order created, order_id=%s, amount=%d %s", order.ID, order.Amount, order.Currency)
	return &order, nil
}

// VerifySignature проверяет подпись платежа от шлюза
// Подпись - HMAC-SHA256 от "orderID|paymentID" на секретном ключе
// Сравнение за константное время; несовпадение означает, что уведомление
// об оплате поддельное или повреждённое
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("%w: order_id=%s, payment_id=%s", ErrInvalidSignature, orderID, paymentID)
	}

	return nil
}
