package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
)

type (
	// ScreenshotRequest captures a page.
	ScreenshotRequest = api.ScreenshotRequest
	// ElementScreenshotRequest captures one element of a page.
	ElementScreenshotRequest = api.ElementScreenshotRequest
	// ScreenshotResult points at a captured image.
	ScreenshotResult = api.ScreenshotResult
	// ScreenshotBatchRequest captures several pages asynchronously.
	ScreenshotBatchRequest = api.ScreenshotBatchRequest
	// ScreenshotBatch is an asynchronous screenshot job.
	ScreenshotBatch = api.BatchJob[ScreenshotResult]
)

// Screenshot captures page images.
type Screenshot interface {
	// Capture takes a screenshot of a page.
	Capture(ctx context.Context, req *ScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error)

	// Element takes a screenshot of the first element matching a CSS selector.
	Element(ctx context.Context, req *ElementScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error)

	// Batch submits up to 50 pages for asynchronous capture.
	Batch(ctx context.Context, req *ScreenshotBatchRequest, opts ...RequestOption) (*ScreenshotBatch, error)

	// GetBatch returns the progress and results of a batch.
	GetBatch(ctx context.Context, id string, opts ...RequestOption) (*ScreenshotBatch, error)

	// WaitForBatch polls a batch until it completes or fails.
	WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*ScreenshotBatch, error)
}

type screenshotImpl struct {
	client *Client
}

func (s *screenshotImpl) Capture(ctx context.Context, req *ScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CaptureScreenshot(ctx, req, opts...)
}

func (s *screenshotImpl) Element(ctx context.Context, req *ElementScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CaptureElement(ctx, req, opts...)
}

func (s *screenshotImpl) Batch(ctx context.Context, req *ScreenshotBatchRequest, opts ...RequestOption) (*ScreenshotBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.BatchScreenshot(ctx, req, opts...)
}

func (s *screenshotImpl) GetBatch(ctx context.Context, id string, opts ...RequestOption) (*ScreenshotBatch, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetScreenshotBatch(ctx, id, opts...)
}

func (s *screenshotImpl) WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*ScreenshotBatch, error) {
	return waitForBatch(ctx, s.client, id, func(ctx context.Context, id string) (*ScreenshotBatch, error) {
		return s.client.apiClient.GetScreenshotBatch(ctx, id)
	}, opts)
}
