// Package probe 主动探测 worker 的 /health 端点
package probe

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// DegradedAfter 响应超过该时长视为 degraded
const DegradedAfter = 2 * time.Second

// healthBody worker /health 可选返回的资源占用
type healthBody struct {
	CPUUsage    *float64 `json:"cpuUsage"`
	MemoryUsage *float64 `json:"memoryUsage"`
	ErrorCount  int      `json:"errorCount"`
}

type Prober struct {
	httpClient *resty.Client
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "lighthouse-probe").
		SetJSONUnmarshaler(json.Unmarshal)

	return &Prober{httpClient: client}
}

// Probe 请求 <endpoint>/health 并转换为一次健康上报；网络不可达时记为 offline，不返回错误
func (p *Prober) Probe(ctx context.Context, endpoint string) *dto.HealthCheckDTO {
	url := strings.TrimRight(endpoint, "/") + "/health"

	var body healthBody
	start := time.Now()
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetResult(&body).
		Get(url)
	elapsed := time.Since(start)

	if err != nil {
		return &dto.HealthCheckDTO{
			Status:       string(model.HealthStatusOffline),
			ErrorCount:   1,
			ErrorMessage: truncate(err.Error()),
		}
	}

	check := &dto.HealthCheckDTO{
		Status:       string(model.HealthStatusHealthy),
		ResponseTime: int(elapsed.Milliseconds()),
		CPUUsage:     body.CPUUsage,
		MemoryUsage:  body.MemoryUsage,
		ErrorCount:   body.ErrorCount,
	}
	switch {
	case resp.IsError():
		check.Status = string(model.HealthStatusUnhealthy)
		check.ErrorMessage = fmt.Sprintf("health endpoint returned %d", resp.StatusCode())
	case elapsed >= DegradedAfter:
		check.Status = string(model.HealthStatusDegraded)
	}
	return check
}

func truncate(msg string) string {
	if len(msg) > 1000 {
		return msg[:1000]
	}
	return msg
}
