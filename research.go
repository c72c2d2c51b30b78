package pagecraft

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pagecraft/client-go/internal/api"
	"github.com/pagecraft/client-go/internal/apierrors"
)

// addItemsConcurrency bounds the in-flight requests of AddItems.
const addItemsConcurrency = 4

type (
	// CreateResearchSessionRequest opens a research session.
	CreateResearchSessionRequest = api.CreateResearchSessionRequest
	// ResearchSession collects sources for conversational analysis.
	ResearchSession = api.ResearchSession
	// ResearchSessionList is one page of sessions.
	ResearchSessionList = api.Page[ResearchSession]
	// AddResearchItemRequest adds a source by URL or inline content.
	AddResearchItemRequest = api.AddResearchItemRequest
	// ResearchItem is a source inside a session.
	ResearchItem = api.ResearchItem
	// ResearchChatRequest asks a question about a session's sources.
	ResearchChatRequest = api.ResearchChatRequest
	// ResearchChatResponse is the answer to a chat message.
	ResearchChatResponse = api.ResearchChatResponse
	// ResearchSource cites an item used in an answer.
	ResearchSource = api.ResearchSource
	// ResearchAnalyzeRequest runs an analysis across a session.
	ResearchAnalyzeRequest = api.ResearchAnalyzeRequest
	// ResearchAnalysis is the result of an analysis.
	ResearchAnalysis = api.ResearchAnalysis
)

// Research manages deep research sessions: collections of sources that can be
// questioned and analysed.
type Research interface {
	CreateSession(ctx context.Context, req *CreateResearchSessionRequest, opts ...RequestOption) (*ResearchSession, error)
	ListSessions(ctx context.Context, list *ListOptions, opts ...RequestOption) (*ResearchSessionList, error)
	GetSession(ctx context.Context, id string, opts ...RequestOption) (*ResearchSession, error)

	// DeleteSession removes a session together with its items.
	DeleteSession(ctx context.Context, id string, opts ...RequestOption) error

	AddItem(ctx context.Context, sessionID string, req *AddResearchItemRequest, opts ...RequestOption) (*ResearchItem, error)

	// AddItems adds several sources concurrently. The returned slice is
	// index-aligned with reqs; entries whose request failed are nil and the
	// failures are joined into the returned error.
	AddItems(ctx context.Context, sessionID string, reqs []*AddResearchItemRequest, opts ...RequestOption) ([]*ResearchItem, error)

	ListItems(ctx context.Context, sessionID string, opts ...RequestOption) ([]ResearchItem, error)
	RemoveItem(ctx context.Context, sessionID, itemID string, opts ...RequestOption) error

	// Chat asks a question answered from the session's sources.
	Chat(ctx context.Context, sessionID string, req *ResearchChatRequest, opts ...RequestOption) (*ResearchChatResponse, error)

	Analyze(ctx context.Context, sessionID string, req *ResearchAnalyzeRequest, opts ...RequestOption) (*ResearchAnalysis, error)
}

type researchImpl struct {
	client *Client
}

func (s *researchImpl) CreateSession(ctx context.Context, req *CreateResearchSessionRequest, opts ...RequestOption) (*ResearchSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.CreateResearchSession(ctx, req, opts...)
}

func (s *researchImpl) ListSessions(ctx context.Context, list *ListOptions, opts ...RequestOption) (*ResearchSessionList, error) {
	if list != nil {
		if err := validateRequest(list); err != nil {
			return nil, err
		}
	}
	return s.client.apiClient.ListResearchSessions(ctx, list, opts...)
}

func (s *researchImpl) GetSession(ctx context.Context, id string, opts ...RequestOption) (*ResearchSession, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetResearchSession(ctx, id, opts...)
}

func (s *researchImpl) DeleteSession(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireID(id, "id"); err != nil {
		return err
	}
	return s.client.apiClient.DeleteResearchSession(ctx, id, opts...)
}

func (s *researchImpl) AddItem(ctx context.Context, sessionID string, req *AddResearchItemRequest, opts ...RequestOption) (*ResearchItem, error) {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.AddResearchItem(ctx, sessionID, req, opts...)
}

func (s *researchImpl) AddItems(ctx context.Context, sessionID string, reqs []*AddResearchItemRequest, opts ...RequestOption) ([]*ResearchItem, error) {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, apierrors.NewValidationError("at least one item is required", "items")
	}
	for i, req := range reqs {
		if err := validateRequest(req); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	items := make([]*ResearchItem, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(addItemsConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			item, err := s.client.apiClient.AddResearchItem(ctx, sessionID, req, opts...)
			if err != nil {
				errs[i] = fmt.Errorf("item %d: %w", i, err)
				return nil
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	return items, errors.Join(errs...)
}

func (s *researchImpl) ListItems(ctx context.Context, sessionID string, opts ...RequestOption) ([]ResearchItem, error) {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	return s.client.apiClient.ListResearchItems(ctx, sessionID, opts...)
}

func (s *researchImpl) RemoveItem(ctx context.Context, sessionID, itemID string, opts ...RequestOption) error {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return err
	}
	if err := requireID(itemID, "itemId"); err != nil {
		return err
	}
	return s.client.apiClient.RemoveResearchItem(ctx, sessionID, itemID, opts...)
}

func (s *researchImpl) Chat(ctx context.Context, sessionID string, req *ResearchChatRequest, opts ...RequestOption) (*ResearchChatResponse, error) {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.ResearchChat(ctx, sessionID, req, opts...)
}

func (s *researchImpl) Analyze(ctx context.Context, sessionID string, req *ResearchAnalyzeRequest, opts ...RequestOption) (*ResearchAnalysis, error) {
	if err := requireID(sessionID, "sessionId"); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.AnalyzeResearch(ctx, sessionID, req, opts...)
}
