// Package imagegen 提供了一个图像生成服务（DALL-E 兼容接口）的客户端。
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"meetmind-go/internal/config"
	"meetmind-go/pkg/log"
)

// GeneratedImage 是一次图像生成的结果。
type GeneratedImage struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt"`
}

// Client 是图像生成服务的客户端。
type Client struct {
	cfg    config.ImageConfig
	client *http.Client
}

// NewClient 创建一个新的图像生成客户端实例。
func NewClient(cfg config.ImageConfig) *Client {
	return &Client{cfg: cfg, client: &http.Client{}}
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// Generate 根据提示词生成一张图片并返回其 URL。
func (c *Client) Generate(ctx context.Context, prompt string) (*GeneratedImage, error) {
	log.Infof("[ImageClient] 开始调用图像生成接口, model: %s, prompt_len: %d", c.cfg.Model, len(prompt))

	size := c.cfg.Size
	if size == "" {
		size = "1024x1024"
	}
	reqBody := imageRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/images/generations", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[ImageClient] 调用图像生成接口失败, error: %v", err)
		return nil, fmt.Errorf("failed to call image api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Errorf("[ImageClient] 图像生成接口返回错误 [%d]: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("image api returned non-200 status: %s", resp.Status)
	}

	var imageResp imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&imageResp); err != nil {
		return nil, fmt.Errorf("failed to decode image response: %w", err)
	}
	if len(imageResp.Data) == 0 || imageResp.Data[0].URL == "" {
		return nil, fmt.Errorf("image api returned no image")
	}

	log.Info("[ImageClient] 图像生成成功")
	return &GeneratedImage{
		URL:           imageResp.Data[0].URL,
		RevisedPrompt: imageResp.Data[0].RevisedPrompt,
	}, nil
}

// Download 下载生成的图片字节，供对象存储落盘。
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned non-200 status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
