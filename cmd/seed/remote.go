package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gameday/internal/domain/game"
	"github.com/valyala/fasthttp"
)

type remoteCreator struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
}

func newRemoteCreator(apiBase string, timeout time.Duration) *remoteCreator {
	return &remoteCreator{
		client: &fasthttp.Client{
			Name:                "gameday-seed",
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		url:     strings.TrimRight(strings.TrimSpace(apiBase), "/") + "/games",
		timeout: timeout,
	}
}

type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *remoteCreator) Create(ctx context.Context, payload game.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := sonic.Marshal(payload.Fields())
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("post %s: %w", c.url, err)
	}

	switch status := resp.StatusCode(); status {
	case fasthttp.StatusCreated:
		return nil
	case fasthttp.StatusConflict:
		return errSkipped
	default:
		var apiErr remoteError
		_ = sonic.Unmarshal(resp.Body(), &apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		return fmt.Errorf("post %s: status %d: %s", c.url, status, msg)
	}
}
