package generator

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-scene-kit/pkg/domain"
)

// --- Mocks ---

type mockAIClient struct {
	lastModel string
	lastParts []*genai.Part
	lastOpts  gemini.GenerateOptions
	err       error
	response  *gemini.Response
}

func imageResponse(mimeType string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
				},
			}},
		},
	}
}

func (m *mockAIClient) UploadFile(ctx context.Context, data []byte, mimeType, displayName string) (string, string, error) {
	return "", "", nil
}

func (m *mockAIClient) DeleteFile(ctx context.Context, name string) error {
	return nil
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	return nil, nil
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.lastModel = model
	m.lastParts = parts
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return imageResponse("image/png", []byte("fake")), nil
}

func (m *mockAIClient) GetFile(ctx context.Context, name string) (*genai.File, error) {
	return nil, nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

// mockSceneGenerator は BatchRunner のテスト用モックです。並列呼び出しに備えて排他します。
type mockSceneGenerator struct {
	mu        sync.Mutex
	calls     int
	failAfter int // この回数を超えた呼び出しを失敗させる（0なら常に成功）
	err       error
}

func (m *mockSceneGenerator) GenerateScene(ctx context.Context, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failAfter > 0 && m.calls > m.failAfter {
		return nil, m.err
	}
	return &domain.ImageResponse{Data: []byte("img"), MimeType: "image/png"}, nil
}

func (m *mockSceneGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSceneGenerator) EditImage(ctx context.Context, base domain.ReferenceImage, instruction string) (*domain.ImageResponse, error) {
	return &domain.ImageResponse{Data: []byte("edited"), MimeType: "image/png"}, nil
}
