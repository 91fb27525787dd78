// Package rewards предоставляет клиент бэкенда программы лояльности.
package rewards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/washpoint-kiosk/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с бэкендом наград.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClaimedRewardPayload описывает одну награду в ответе на запрос получения.
type ClaimedRewardPayload struct {
	Reward       string `json:"reward"`
	Milestone    int    `json:"milestone"`
	Token        string `json:"token"`
	QRCodeBase64 string `json:"qr_code_base64"`
}

// ClaimResult описывает ответ бэкенда на запрос получения наград.
// Отсутствие наград — не ошибка: бэкенд присылает Message вместо Rewards.
type ClaimResult struct {
	Rewards []ClaimedRewardPayload `json:"rewards"`
	Message string                 `json:"message"`
}

// RedeemResult описывает подтверждение обмена награды.
type RedeemResult struct {
	Reward    string `json:"reward"`
	Milestone int    `json:"milestone"`
}

// RedeemError возвращается при отказе бэкенда обменять токен (не-2xx ответ).
type RedeemError struct {
	Status int
	Detail string
}

func (e *RedeemError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("redeem rejected with status %d", e.Status)
}

// NewClient создаёт HTTP-клиент бэкенда наград по указанному адресу.
// Таймаут ограничивает каждый запрос целиком, чтобы зависший бэкенд
// не оставлял киоск в вечном ожидании.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) endpoint(path string) string {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + path
}

// GetProfile запрашивает профиль клиента по номеру телефона.
func (c *Client) GetProfile(ctx context.Context, phone string) (*model.Profile, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("rewards client not configured")
	}

	u := c.endpoint("/me") + "?phone=" + url.QueryEscape(phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var profile model.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &profile, nil
}

// Claim запрашивает выпуск наград для указанного номера телефона.
func (c *Client) Claim(ctx context.Context, phone string) (*ClaimResult, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("rewards client not configured")
	}

	body, err := json.Marshal(map[string]string{"phone": phone})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/reward"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result ClaimResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}

// Redeem обменивает токен награды. Отказ бэкенда (не-2xx) возвращается
// как *RedeemError с текстом detail из тела ответа.
func (c *Client) Redeem(ctx context.Context, rewardToken string) (*RedeemResult, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("rewards client not configured")
	}

	body, err := json.Marshal(map[string]string{"token": rewardToken})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/redeem"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejection struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&rejection)
		return nil, &RedeemError{Status: resp.StatusCode, Detail: rejection.Detail}
	}

	var result RedeemResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
