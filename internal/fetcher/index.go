package fetcher

import (
	"context"
	"time"

	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// GetIndex performs a small JSON API GET and returns the body of a 2xx
// response. Index endpoints are not expected to redirect; a 3xx answer is a
// failure like any other non-2xx status.
func (f *Fetcher) GetIndex(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.ErrNetworkFailure.WithMessage("request to %s cancelled", rawURL).Wrap(err)
	}
	timeout := f.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	var (
		agent   = fiber.AcquireAgent()
		request = agent.Request()
		resp    = fasthttp.AcquireResponse()
	)

	defer func() {
		fiber.ReleaseAgent(agent)
		fasthttp.ReleaseResponse(resp)
	}()

	agent.Name = f.cfg.UserAgent
	request.SetRequestURI(rawURL)
	request.Header.SetMethod(fiber.MethodGet)

	if err := agent.Parse(); err != nil {
		f.logger.Error("Failed to parse request",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, errs.ErrNetworkFailure.WithMessage("invalid url %s", rawURL).Wrap(err)
	}
	request.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if err := agent.DoTimeout(request, resp, timeout); err != nil {
		f.logger.Warn("Failed to send request",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, errs.ErrNetworkFailure.WithMessage("request to %s failed", rawURL).Wrap(err)
	}

	if code := resp.StatusCode(); code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, errs.ErrNetworkFailure.WithMessage("request failed with status code %d", code)
	}

	// resp is pooled; the body must outlive it
	return append([]byte(nil), resp.Body()...), nil
}
