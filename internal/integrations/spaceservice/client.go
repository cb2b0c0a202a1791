package spaceservice

import (
	"context"
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

// Client клиент для работы со SpaceService (каталог пространств)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SpaceService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSpace получает пространство по ID (тарифы, вместимость, менеджеры, расписание)
// При недоступности сервиса возвращает ErrServiceUnavailable - вызывающая сторона
// обязана заблокировать чекаут, а не подставлять нулевой тариф
func (c *Client) GetSpace(ctx context.Context, spaceID int64) (*Space, error) {
	url := fmt.Sprintf("%s/internal/spaces/%d", c.baseURL, spaceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("GetSpace: SpaceService unavailable for space_id=%d: %v", spaceID, err)
		return nil, fmt.Errorf("%w: space_id=%d, error=%v", ErrServiceUnavailable, spaceID, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid space ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrSpaceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var space Space
	if err := json.NewDecoder(resp.Body).Decode(&space); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &space, nil
}
