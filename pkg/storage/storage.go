package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"cometa/backend/config"
)

// Client 对象存储客户端（Supabase Storage 兼容 REST API）
// 仅负责对象的上传/列举/删除；桶策略校验由调用方在触达存储前完成
type Client struct {
	endpoint   string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// Object 存储对象元数据
type Object struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient 创建存储客户端
func NewClient(cfg *config.StorageConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Upload 上传对象到指定桶
// 返回对象的完整路径（bucket/objectPath）
func (c *Client) Upload(ctx context.Context, bucket, objectPath, contentType string, body io.Reader) (string, error) {
	u := fmt.Sprintf("%s/object/%s/%s", c.endpoint, bucket, escapePath(objectPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "3600")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("上传对象失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError("上传对象失败", resp)
	}

	return bucket + "/" + objectPath, nil
}

// List 列举桶内指定前缀下的对象
func (c *Client) List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error) {
	u := fmt.Sprintf("%s/object/list/%s", c.endpoint, bucket)

	payload, err := json.Marshal(map[string]interface{}{
		"prefix": prefix,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("列举对象失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("列举对象失败", resp)
	}

	var objects []Object
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("解析对象列表失败: %w", err)
	}
	return objects, nil
}

// Delete 删除桶内对象
func (c *Client) Delete(ctx context.Context, bucket, objectPath string) error {
	u := fmt.Sprintf("%s/object/%s/%s", c.endpoint, bucket, escapePath(objectPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("删除对象失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError("删除对象失败", resp)
	}
	return nil
}

// PublicURL 生成公开访问 URL（仅公开桶有效）
func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.endpoint, bucket, escapePath(objectPath))
}

func (c *Client) apiError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.Warn("存储 API 错误",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", b),
	)
	return fmt.Errorf("%s: HTTP %d", prefix, resp.StatusCode)
}

// escapePath 按段转义对象路径，保留分隔符
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
