// Package presage 提供厂家 rPPG SDK 的认证接口客户端
//
// 只做凭证校验：APIKey 缺失时服务进入模拟模式，不调用厂家接口；
// 测量管线本身（合成实现见 internal/vitals）不依赖厂家服务。
package presage

import (
	"context"
	"fmt"
	"time"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ValidateRequest 凭证校验请求
type ValidateRequest struct {
	APIKey string `json:"api_key"`
}

// ValidateResponse 凭证校验响应
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Msg   string `json:"msg"`
}

// Client Presage 厂家 API 客户端
type Client struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

// NewClient 创建 Presage 客户端
func NewClient(cfg *config.PresageConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// ValidateAPIKey 校验 API Key
//
// 返回的错误为 *models.SessionError：
//   - 网络失败 → NETWORK_ERROR
//   - 厂家拒绝 → INVALID_API_KEY
func (c *Client) ValidateAPIKey(ctx context.Context) error {
	if c.apiKey == "" {
		return &models.SessionError{
			Code:    models.ErrCodeInvalidAPIKey,
			Message: "API key is not configured",
		}
	}

	var response ValidateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ValidateRequest{APIKey: c.apiKey}).
		SetResult(&response).
		Post("/v1/auth/validate")

	if err != nil {
		c.logger.Error("Presage API call failed",
			zap.Error(err),
		)
		return &models.SessionError{
			Code:    models.ErrCodeNetworkError,
			Message: fmt.Sprintf("failed to reach Presage API: %v", err),
		}
	}

	if resp.IsError() || !response.Valid {
		c.logger.Warn("Presage API rejected credentials",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", response.Msg),
		)
		return &models.SessionError{
			Code:    models.ErrCodeInvalidAPIKey,
			Message: "Presage API rejected the configured API key",
			Details: map[string]any{
				"status_code": resp.StatusCode(),
				"msg":         response.Msg,
			},
		}
	}

	c.logger.Info("Presage API key validated")
	return nil
}
