package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-agent/internal/fetch"
	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/session"
)

type stubLLM struct {
	contentResponse string
	jsonResponse    string
}

func (s *stubLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.contentResponse, nil
}

func (s *stubLLM) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.jsonResponse, nil
}

func (s *stubLLM) Close() error { return nil }

type stubFetcher struct {
	content string
	err     error
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Result{URL: url, Content: s.content}, nil
}

type stubSearcher struct {
	response string
	err      error
	queries  []string
}

func (s *stubSearcher) Search(_ context.Context, query, _ string) (string, error) {
	s.queries = append(s.queries, query)
	return s.response, s.err
}

const researchJSON = `{
	"job_details": {
		"company": "Acme Corp",
		"job_title": "Backend Engineer",
		"job_description": "Build services in Go."
	},
	"company_info": {"name": "Acme Corp", "industry": "Software"},
	"job_url": "https://acme.com/jobs/1",
	"market_insights": ["Cloud adoption is growing"],
	"application_tips": ["Mention Go experience"]
}`

func TestResearcherRun(t *testing.T) {
	client := &stubLLM{contentResponse: "Acme Corp\n", jsonResponse: researchJSON}
	searcher := &stubSearcher{response: "Acme Corp builds developer tools."}
	researcher := New(client, &stubFetcher{content: "Backend Engineer role at Acme Corp. Apply now."}, searcher, false)

	store := session.NewStore()
	require.NoError(t, researcher.Run(context.Background(), store, "https://acme.com/jobs/1"))

	record, ok := store.JobResearch()
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", record.JobDetails.Company)
	assert.Equal(t, "Backend Engineer", record.JobDetails.JobTitle)
	assert.NotEmpty(t, record.ResearchDate, "research date is defaulted when the model omits it")

	// Raw research is stored verbatim.
	assert.Equal(t, "Acme Corp builds developer tools.", store.GetString(session.KeyCompanyResearch))
	assert.Equal(t, []string{"Acme Corp"}, searcher.queries, "whitespace trimmed from extracted name")
	assert.Equal(t, "https://acme.com/jobs/1", store.GetString(session.KeyJobURL))
}

func TestResearcherRunFetchFails(t *testing.T) {
	fetchErr := &fetch.Error{URL: "https://acme.com/jobs/1", Message: "HTTP status 404"}
	researcher := New(&stubLLM{}, &stubFetcher{err: fetchErr}, &stubSearcher{}, false)

	err := researcher.Run(context.Background(), session.NewStore(), "https://acme.com/jobs/1")
	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "fetching job posting", stageErr.Message)
	assert.ErrorAs(t, err, &fetchErr)
}

func TestResearcherRunEmptyCompanyName(t *testing.T) {
	client := &stubLLM{contentResponse: "   "}
	researcher := New(client, &stubFetcher{content: "Some role description"}, &stubSearcher{}, false)

	err := researcher.Run(context.Background(), session.NewStore(), "https://acme.com/jobs/1")
	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Contains(t, stageErr.Message, "company name")
}

func TestPerplexityClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Acme Corp")

		fmt.Fprint(w, `{"choices": [{"message": {"content": "Acme Corp is a software company."}}]}`)
	}))
	defer server.Close()

	client := NewPerplexityClient("test-key")
	client.baseURL = server.URL

	got, err := client.Search(context.Background(), "Acme Corp", FocusCompanyOverview)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp is a software company.", got)
}

func TestPerplexityClientSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid key"}`)
	}))
	defer server.Close()

	client := NewPerplexityClient("bad-key")
	client.baseURL = server.URL

	_, err := client.Search(context.Background(), "Acme Corp", FocusCompanyOverview)
	var perplexityErr *PerplexityError
	require.ErrorAs(t, err, &perplexityErr)
	assert.Equal(t, http.StatusUnauthorized, perplexityErr.StatusCode)
}
