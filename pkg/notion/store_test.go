package notion

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaopengme/wxnote/pkg/config"
	"github.com/zhaopengme/wxnote/pkg/enrich"
)

type fakePages struct {
	requests []*notionapi.PageCreateRequest
	page     *notionapi.Page
	err      error
}

func (f *fakePages) Create(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.requests = append(f.requests, req)
	return f.page, f.err
}

func testConfig() config.NotionConfig {
	cfg := config.DefaultConfig().Notion
	cfg.DatabaseID = "db-123"
	return cfg
}

func sampleRecord() enrich.Record {
	return enrich.Record{
		Fields: enrich.Fields{
			Title:    "Hi",
			Tags:     []string{"a", "b"},
			Category: "Notes",
			Summary:  "Summary text",
		},
		RawContent: "hello",
		SenderID:   "o_user",
	}
}

func plain(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range rt {
		sb.WriteString(r.Text.Content)
	}
	return sb.String()
}

func TestStore_CreateRecordMapsFields(t *testing.T) {
	fp := &fakePages{page: &notionapi.Page{ID: "page-1"}}
	s := newStore(fp, testConfig())

	id, err := s.CreateRecord(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "page-1", id)

	require.Len(t, fp.requests, 1)
	req := fp.requests[0]
	assert.Equal(t, notionapi.ParentTypeDatabaseID, req.Parent.Type)
	assert.Equal(t, notionapi.DatabaseID("db-123"), req.Parent.DatabaseID)

	props := req.Properties
	require.Len(t, props, 6)

	title, ok := props["Title"].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "Hi", plain(title.Title))

	tags, ok := props["Tags"].(notionapi.MultiSelectProperty)
	require.True(t, ok)
	assert.Equal(t, []notionapi.Option{{Name: "a"}, {Name: "b"}}, tags.MultiSelect)

	category, ok := props["Category"].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "Notes", category.Select.Name)

	for name, want := range map[string]string{"Summary": "Summary text", "Raw": "hello", "From": "o_user"} {
		rt, ok := props[name].(notionapi.RichTextProperty)
		require.True(t, ok, name)
		assert.Equal(t, want, plain(rt.RichText), name)
	}
}

func TestStore_EmptyFieldsStayDefined(t *testing.T) {
	fp := &fakePages{page: &notionapi.Page{ID: "page-2"}}
	s := newStore(fp, testConfig())

	_, err := s.CreateRecord(context.Background(), enrich.Record{
		Fields:     enrich.ParseResult("only title"),
		RawContent: "raw",
		SenderID:   "u",
	})
	require.NoError(t, err)

	props := fp.requests[0].Properties
	_, hasCategory := props["Category"]
	assert.False(t, hasCategory)

	tags := props["Tags"].(notionapi.MultiSelectProperty)
	assert.NotNil(t, tags.MultiSelect)
	assert.Empty(t, tags.MultiSelect)

	summary := props["Summary"].(notionapi.RichTextProperty)
	assert.NotNil(t, summary.RichText)
	assert.Empty(t, summary.RichText)
}

func TestStore_CustomPropertyNames(t *testing.T) {
	cfg := testConfig()
	cfg.Properties.Title = "Name"
	cfg.Properties.From = "Sender"
	fp := &fakePages{page: &notionapi.Page{ID: "p"}}

	_, err := newStore(fp, cfg).CreateRecord(context.Background(), sampleRecord())
	require.NoError(t, err)

	props := fp.requests[0].Properties
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Sender")
	assert.NotContains(t, props, "Title")
}

func TestStore_LongTextIsChunked(t *testing.T) {
	rt := richText(strings.Repeat("字", maxTextLen*2+5))
	require.Len(t, rt, 3)
	assert.Equal(t, maxTextLen, len([]rune(rt[0].Text.Content)))
	assert.Equal(t, 5, len([]rune(rt[2].Text.Content)))
}

func TestStore_CreateRecordError(t *testing.T) {
	cause := errors.New("validation_error: Tags is not a property that exists")
	s := newStore(&fakePages{err: cause}, testConfig())

	_, err := s.CreateRecord(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.ErrorIs(t, err, cause)
}

func TestStore_NilPage(t *testing.T) {
	s := newStore(&fakePages{}, testConfig())
	_, err := s.CreateRecord(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrPersistenceFailed)
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	body := `{"object":"error","status":429,"code":"rate_limited","message":"slow down"}`
	return &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{"Retry-After": []string{"0"}, "Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func TestStore_RateLimitedIsNotRetried(t *testing.T) {
	cfg := testConfig()
	cfg.Token = "secret_test"
	rt := &countingTransport{}
	s := newClientStore(cfg, notionapi.WithHTTPClient(&http.Client{Transport: rt}))

	_, err := s.CreateRecord(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Equal(t, int32(1), rt.calls.Load())
}

func TestStore_CategoryWithCommas(t *testing.T) {
	rec := sampleRecord()
	rec.Category = "工作, 学习"
	rec.Tags = []string{"go", " , "}
	fp := &fakePages{page: &notionapi.Page{ID: "p"}}

	_, err := newStore(fp, testConfig()).CreateRecord(context.Background(), rec)
	require.NoError(t, err)

	props := fp.requests[0].Properties
	category := props["Category"].(notionapi.SelectProperty)
	assert.Equal(t, "工作 学习", category.Select.Name)

	tags := props["Tags"].(notionapi.MultiSelectProperty)
	require.Len(t, tags.MultiSelect, 1)
	assert.Equal(t, "go", tags.MultiSelect[0].Name)
}

func TestStore_CategoryOnlyCommasIsOmitted(t *testing.T) {
	rec := sampleRecord()
	rec.Category = " , ,"
	fp := &fakePages{page: &notionapi.Page{ID: "p"}}

	_, err := newStore(fp, testConfig()).CreateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.NotContains(t, fp.requests[0].Properties, "Category")
}
