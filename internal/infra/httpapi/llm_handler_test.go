package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/amirrhe/code-review-system/internal/infra/llm"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	suggestions []string
	err         error
	lastSource  string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	s.lastSource = source
	return s.suggestions, s.err
}

func newLLMTestServer(analyzer analysis.Analyzer) *gin.Engine {
	return NewLLMServer(NewLLMHandler(analyzer))
}

func TestLLMHandler_Analyze(t *testing.T) {
	analyzer := &stubAnalyzer{suggestions: []string{"Use a docstring."}}
	engine := newLLMTestServer(analyzer)

	rec := doJSON(t, engine, http.MethodPost, "/analyze", gin.H{
		"function_code": "def square(x):\n    return x * x\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Use a docstring."}, resp["suggestions"])
	assert.Equal(t, "def square(x):\n    return x * x\n", analyzer.lastSource)
}

func TestLLMHandler_AnalyzeMissingCode(t *testing.T) {
	engine := newLLMTestServer(&stubAnalyzer{})

	rec := doJSON(t, engine, http.MethodPost, "/analyze", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLLMHandler_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "source too large",
			err:        llm.ErrSourceTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "provider error",
			err:        analysis.NewProviderError("local", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newLLMTestServer(&stubAnalyzer{err: tt.err})

			rec := doJSON(t, engine, http.MethodPost, "/analyze", gin.H{
				"function_code": "def square(x):\n    return x * x\n",
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLLMHandler_Root(t *testing.T) {
	engine := newLLMTestServer(&stubAnalyzer{})

	rec := doJSON(t, engine, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LLM Service is running")
}
