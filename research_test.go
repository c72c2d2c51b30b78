package pagecraft

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearch_AddItems(t *testing.T) {
	var (
		mu       sync.Mutex
		received []string
		inFlight int32
		peak     int32
	)
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}

		var req AddResearchItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		received = append(received, req.URL)
		mu.Unlock()

		if strings.Contains(req.URL, "broken") {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "cannot fetch", "code": "FETCH_FAILED"})
			return
		}
		writeJSON(w, http.StatusCreated, envelope(map[string]any{"id": "item-" + req.URL[len(req.URL)-1:], "url": req.URL}))
	})

	reqs := []*AddResearchItemRequest{
		{URL: "https://example.com/1"},
		{URL: "https://example.com/broken"},
		{URL: "https://example.com/3"},
		{URL: "https://example.com/4"},
		{URL: "https://example.com/5"},
		{URL: "https://example.com/6"},
	}

	items, err := client.Research().AddItems(context.Background(), "s1", reqs)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
	assert.ErrorIs(t, err, ErrAPI)

	require.Len(t, items, len(reqs))
	assert.Nil(t, items[1])
	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, "https://example.com/6", items[5].URL)

	assert.Len(t, received, len(reqs))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(addItemsConcurrency))
}

func TestResearch_AddItemsValidatesFirst(t *testing.T) {
	var hits int32
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	_, err := client.Research().AddItems(context.Background(), "s1", []*AddResearchItemRequest{
		{URL: "https://example.com"},
		{},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "item 1")

	_, err = client.Research().AddItems(context.Background(), "s1", nil)
	require.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestResearch_ChatAndAnalyze(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/deep-research/sessions/s1/chat":
			writeJSON(w, http.StatusOK, envelope(map[string]any{
				"reply":   "Prices rose 4%.",
				"sources": []map[string]any{{"itemId": "i1", "url": "https://example.com"}},
			}))
		case "/deep-research/sessions/s1/analyze":
			writeJSON(w, http.StatusOK, envelope(map[string]any{
				"type":        "summary",
				"content":     "Summary",
				"keyFindings": []string{"a", "b"},
			}))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	chat, err := client.Research().Chat(ctx, "s1", &ResearchChatRequest{Message: "What changed?", IncludeSources: true})
	require.NoError(t, err)
	assert.Equal(t, "Prices rose 4%.", chat.Reply)
	require.Len(t, chat.Sources, 1)
	assert.Equal(t, "i1", chat.Sources[0].ItemID)

	analysis, err := client.Research().Analyze(ctx, "s1", &ResearchAnalyzeRequest{Type: "summary"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, analysis.KeyFindings)
}

func TestResearch_ListSessionsPage(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, envelope(map[string]any{
			"items":   []map[string]any{{"id": "s1", "title": "Pricing"}},
			"total":   11,
			"page":    2,
			"hasMore": true,
		}))
	})

	page, err := client.Research().ListSessions(context.Background(), &ListOptions{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Pricing", page.Items[0].Title)
}
