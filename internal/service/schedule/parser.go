package schedule

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"course_match_server/internal/config"
	"course_match_server/pkg/errorx"
)

// ParsedCourse 识别服务返回的一行课程，内容不可信，使用前必须校验
type ParsedCourse struct {
	Name      string `json:"name"`
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Classroom string `json:"classroom"`
	Professor string `json:"professor"`
	Weeks     string `json:"weeks"`
}

// Parser 课表图片识别
type Parser interface {
	ParseScheduleImage(ctx context.Context, image []byte, mime string) ([]ParsedCourse, error)
}

// maxVisionResponse 识别结果最大字节数
const maxVisionResponse = 1 << 20

type visionRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type visionResponse struct {
	Courses []ParsedCourse `json:"courses"`
}

// VisionParser 调用外部识别服务的 HTTP 客户端
type VisionParser struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewVisionParser 根据配置创建识别客户端，Endpoint 为空时每次调用都返回 Upstream 错误
func NewVisionParser(conf config.VisionConfig) *VisionParser {
	return &VisionParser{
		endpoint: strings.TrimSpace(conf.Endpoint),
		apiKey:   conf.ApiKey,
		client:   &http.Client{Timeout: time.Duration(conf.TimeoutSeconds) * time.Second},
	}
}

// ParseScheduleImage 上传图片并返回识别出的课程
func (p *VisionParser) ParseScheduleImage(ctx context.Context, image []byte, mime string) ([]ParsedCourse, error) {
	if p.endpoint == "" {
		return nil, errorx.New(errorx.CodeUpstream, "课表识别服务未开启")
	}

	body, err := json.Marshal(visionRequest{Image: base64.StdEncoding.EncodeToString(image), MimeType: mime})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "encode vision request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUpstream, "build vision request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUpstream, errorx.ErrUpstream.Msg)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVisionResponse))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUpstream, errorx.ErrUpstream.Msg)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorx.Wrap(fmt.Errorf("vision status %d: %s", resp.StatusCode, truncate(data, 200)),
			errorx.CodeUpstream, errorx.ErrUpstream.Msg)
	}

	var out visionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUpstream, "课表识别结果格式错误")
	}
	return out.Courses, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
