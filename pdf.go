package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
)

type (
	// PDFRequest renders a URL or raw HTML to PDF.
	PDFRequest = api.PDFRequest
	// PDFMargin is a page margin in CSS units.
	PDFMargin = api.PDFMargin
	// PDFResult points at a rendered document.
	PDFResult = api.PDFResult
	// PDFBatchRequest renders several documents asynchronously.
	PDFBatchRequest = api.PDFBatchRequest
	// PDFBatch is an asynchronous PDF job.
	PDFBatch = api.BatchJob[PDFResult]
)

// PDF renders documents.
type PDF interface {
	// Generate renders a single document.
	Generate(ctx context.Context, req *PDFRequest, opts ...RequestOption) (*PDFResult, error)

	// Batch submits up to 50 documents for asynchronous rendering.
	Batch(ctx context.Context, req *PDFBatchRequest, opts ...RequestOption) (*PDFBatch, error)

	// GetBatch returns the progress and results of a batch.
	GetBatch(ctx context.Context, id string, opts ...RequestOption) (*PDFBatch, error)

	// WaitForBatch polls a batch until it completes or fails.
	WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*PDFBatch, error)
}

type pdfImpl struct {
	client *Client
}

func (s *pdfImpl) Generate(ctx context.Context, req *PDFRequest, opts ...RequestOption) (*PDFResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.GeneratePDF(ctx, req, opts...)
}

func (s *pdfImpl) Batch(ctx context.Context, req *PDFBatchRequest, opts ...RequestOption) (*PDFBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.BatchPDF(ctx, req, opts...)
}

func (s *pdfImpl) GetBatch(ctx context.Context, id string, opts ...RequestOption) (*PDFBatch, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetPDFBatch(ctx, id, opts...)
}

func (s *pdfImpl) WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*PDFBatch, error) {
	return waitForBatch(ctx, s.client, id, func(ctx context.Context, id string) (*PDFBatch, error) {
		return s.client.apiClient.GetPDFBatch(ctx, id)
	}, opts)
}
