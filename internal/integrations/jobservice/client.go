package jobservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с JobService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента JobService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetJob получает данные работы по идентификатору
func (c *Client) GetJob(ctx context.Context, jobID int64) (*Job, error) {
	url := fmt.Sprintf("%s/internal/jobs/%d", c.baseURL, jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid job ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrJobNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &job, nil
}

// GetJobWithGracefulDegradation получает данные работы с graceful degradation.
// При недоступности JobService возвращает ErrServiceDegraded - бронирование
// в этом случае создаётся с данными, переданными клиентом в запросе.
func (c *Client) GetJobWithGracefulDegradation(ctx context.Context, jobID int64) (*Job, error) {
	c.log.Info("Fetching job for job_id=%d", jobID)

	job, err := c.GetJob(ctx, jobID)
	if err != nil {
		// Отсутствие работы - бизнес-ошибка, пробрасываем дальше
		if err == ErrJobNotFound {
			c.log.Info("Job not found for job_id=%d", jobID)
			return nil, err
		}

		// Недоступность сервиса, timeout, ошибки парсинга - деградируем
		c.log.Error("JobService unavailable, applying graceful degradation for job_id=%d: %v", jobID, err)
		return nil, fmt.Errorf("%w: job_id=%d, error=%v", ErrServiceDegraded, jobID, err)
	}

	c.log.Info("Successfully fetched job for job_id=%d, title=%s", jobID, job.Title)
	return job, nil
}
