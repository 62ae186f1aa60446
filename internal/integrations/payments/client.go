package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент платёжной подсистемы.
// Движок не обрабатывает платежи сам: он спрашивает, требуется ли
// предоплата, и получает callback о подтверждении оплаты.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжной подсистемы
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// RequiresPayment проверяет, требует ли услуга предоплату
func (c *Client) RequiresPayment(ctx context.Context, serviceID int64) (bool, error) {
	url := fmt.Sprintf("%s/internal/services/%d/payment-requirement", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return false, ErrServiceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var requirement PaymentRequirement
	if err := json.NewDecoder(resp.Body).Decode(&requirement); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return requirement.RequiresPayment, nil
}

// RequiresPaymentWithGracefulDegradation проверяет необходимость предоплаты
// с graceful degradation: при недоступности платёжного сервиса возвращает
// ErrServiceDegraded, и вызывающая сторона решает по локальному полю
// booking_fee услуги.
func (c *Client) RequiresPaymentWithGracefulDegradation(ctx context.Context, serviceID int64) (bool, error) {
	requiresPayment, err := c.RequiresPayment(ctx, serviceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			// Платёжный сервис не знает услугу - предоплата не настроена
			c.log.Info("Payments has no requirement for service_id=%d", serviceID)
			return false, nil
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout и т.д.)
		// применяем graceful degradation
		c.log.Error("Payments unavailable, applying graceful degradation for service_id=%d: %v", serviceID, err)
		return false, fmt.Errorf("%w: service_id=%d, error=%v", ErrServiceDegraded, serviceID, err)
	}

	return requiresPayment, nil
}
