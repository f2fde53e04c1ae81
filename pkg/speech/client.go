// Package speech 提供了一个语音转写服务（Whisper 兼容接口）的客户端。
package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"meetmind-go/internal/config"
	"meetmind-go/pkg/log"
)

// Segment 是转写结果中的一个时间片段。
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult 是一次音频转写的完整结果。
type TranscriptionResult struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Client 是转写服务的客户端。
type Client struct {
	cfg    config.SpeechConfig
	client *http.Client
}

// NewClient 创建一个新的转写客户端实例。
func NewClient(cfg config.SpeechConfig) *Client {
	return &Client{cfg: cfg, client: &http.Client{}}
}

// Transcribe 将音频流上传到转写接口并返回带时间片段的转写结果。
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, fileName string) (*TranscriptionResult, error) {
	log.Infof("[SpeechClient] 开始转写音频, model: %s, file: %s", c.cfg.Model, fileName)

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, audio); err != nil {
			pw.CloseWithError(err)
			return
		}
		_ = writer.WriteField("model", c.cfg.Model)
		_ = writer.WriteField("response_format", "verbose_json")
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/audio/transcriptions", pr)
	if err != nil {
		return nil, fmt.Errorf("创建转写请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[SpeechClient] 调用转写接口失败, error: %v", err)
		return nil, fmt.Errorf("调用转写接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Errorf("[SpeechClient] 转写接口返回错误 [%d]: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("转写接口返回错误 [%d]: %s", resp.StatusCode, string(body))
	}

	var result TranscriptionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("解析转写响应失败: %w", err)
	}
	if result.Text == "" {
		return nil, fmt.Errorf("转写接口返回了空文本")
	}

	log.Infof("[SpeechClient] 转写成功, 文本长度: %d, 片段数: %d", len(result.Text), len(result.Segments))
	return &result, nil
}
