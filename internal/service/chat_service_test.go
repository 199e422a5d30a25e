package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/internal/repository/implementation"
	"rag-chat-be/pkg/genai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettingsRepo(t *testing.T) contract.SettingsRepository {
	t.Helper()
	return implementation.NewSettingsRepository(filepath.Join(t.TempDir(), "settings.json"), "test-model")
}

func newChatServiceWithProvider(t *testing.T, handler http.HandlerFunc) (IChatService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := genai.NewClient("test-key", genai.WithBaseURL(srv.URL))
	return NewChatService(client, testSettingsRepo(t), nopLogger{}), srv
}

func TestChatAttachesStoreToolWhenSelectorValid(t *testing.T) {
	var gotReq genai.GenerateContentRequest

	svc, _ := newChatServiceWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{{Text: "grounded answer"}}}},
			},
		})
	})

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message: "what is this?",
		StoreId: "fileSearchStores/docs",
	})
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", res.Text)

	require.Len(t, gotReq.Tools, 1)
	assert.Equal(t, []string{"fileSearchStores/docs"}, gotReq.Tools[0].FileSearch.FileSearchStoreNames)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.NotEmpty(t, gotReq.SystemInstruction.Parts[0].Text)
}

func TestChatWhitespaceSelectorSendsNoTool(t *testing.T) {
	var gotReq genai.GenerateContentRequest

	svc, _ := newChatServiceWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{{Text: "plain answer"}}}},
			},
		})
	})

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message: "what is this?",
		StoreId: "   ",
	})
	require.NoError(t, err)
	assert.Empty(t, gotReq.Tools)
}

func TestChatEmptyMessageNeverCallsProvider(t *testing.T) {
	var calls int32

	svc, _ := newChatServiceWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "   "})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestChatProviderFailureBecomesAppError(t *testing.T) {
	svc, _ := newChatServiceWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "hello"})
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Contains(t, appErr.Details, "boom")
}

func TestChatExtractsCitations(t *testing.T) {
	svc, _ := newChatServiceWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{Parts: []genai.Part{{Text: "cited answer"}}},
					GroundingMetadata: &genai.GroundingMetadata{
						GroundingChunks: []genai.GroundingChunk{
							{RetrievedContext: &genai.RetrievedContext{Title: "guide.md", URI: "files/guide"}},
							{Web: &genai.WebSource{Title: "example", URI: "https://example.com"}},
							{},
						},
					},
				},
			},
		})
	})

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message: "cite me",
		StoreId: "fileSearchStores/docs",
	})
	require.NoError(t, err)

	require.Len(t, res.Citations, 3)
	assert.Equal(t, dto.CitationDTO{Title: "guide.md", URI: "files/guide"}, res.Citations[0])
	assert.Equal(t, dto.CitationDTO{Title: "example", URI: "https://example.com"}, res.Citations[1])
	assert.Equal(t, dto.CitationDTO{}, res.Citations[2])
}
