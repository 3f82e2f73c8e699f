package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"migration-integrity-checker/config"
	apperrors "migration-integrity-checker/errors"
	"migration-integrity-checker/models"
)

// ChunkReader exposes the two read operations the integrity checker needs.
// Tests substitute an in-memory fake; production uses the Supabase REST API.
type ChunkReader interface {
	FetchChunks(ctx context.Context, limit int) ([]models.ChunkRecord, error)
	FetchDocumentIDs(ctx context.Context) (models.DocumentIDSet, error)
}

// TableInspector exposes the read probes the structural checker needs.
type TableInspector interface {
	ProbeTable(ctx context.Context, table string) error
	TableColumns(ctx context.Context, table string) (string, []string, error)
	CountRows(ctx context.Context, table string) (int64, error)
	ProbeColumn(ctx context.Context, table, column string) error
}

// SupabaseClient combines the capability interfaces over one REST connection.
type SupabaseClient interface {
	ChunkReader
	TableInspector
}

// supabaseHTTPClient implements SupabaseClient using HTTP REST API
type supabaseHTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabaseClient creates a new Supabase HTTP client
func NewSupabaseClient(cfg *config.SupabaseConfig) SupabaseClient {
	return &supabaseHTTPClient{
		baseURL: strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SupabaseError represents errors from Supabase API
type SupabaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *SupabaseError) Error() string {
	return fmt.Sprintf("supabase error [%s]: %s", e.Code, e.Message)
}

// doRequest performs a single HTTP request. A failed call is fatal to the
// run, so there is no retry here.
func (c *supabaseHTTPClient) doRequest(ctx context.Context, method, endpoint string, result interface{}) error {
	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(apperrors.ErrCodeNetworkConnection, "request to store failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle error responses
	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp.StatusCode, respBody)
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// errorFromResponse maps a non-2xx response to an error. Auth failures are
// distinguished so the caller can point the user at the key rather than the
// schema.
func (c *supabaseHTTPClient) errorFromResponse(status int, body []byte) error {
	var supabaseErr SupabaseError
	if err := json.Unmarshal(body, &supabaseErr); err != nil || supabaseErr.Message == "" {
		supabaseErr = SupabaseError{
			Code:    strconv.Itoa(status),
			Message: strings.TrimSpace(string(body)),
		}
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return apperrors.NewAuthError(apperrors.ErrCodeInvalidCredentials, "store rejected credentials", &supabaseErr)
	}
	return &supabaseErr
}

// Helper function to build query parameters
func buildQueryParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	values := url.Values{}
	for key, value := range params {
		values.Add(key, value)
	}

	return "?" + values.Encode()
}

// FetchChunks retrieves up to limit chunk rows with the three projected
// fields the integrity checker reads, in store order.
func (c *supabaseHTTPClient) FetchChunks(ctx context.Context, limit int) ([]models.ChunkRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("chunk sample limit must be positive: %w", models.ErrInvalidInput)
	}

	params := map[string]string{
		"select": "id,embedding,document_id",
		"limit":  strconv.Itoa(limit),
	}
	endpoint := "/document_chunks" + buildQueryParams(params)

	var chunks []models.ChunkRecord
	if err := c.doRequest(ctx, "GET", endpoint, &chunks); err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}

	return chunks, nil
}

// FetchDocumentIDs retrieves the full set of document identifiers for O(1)
// membership tests.
func (c *supabaseHTTPClient) FetchDocumentIDs(ctx context.Context) (models.DocumentIDSet, error) {
	endpoint := "/documents" + buildQueryParams(map[string]string{"select": "id"})

	var docs []models.DocumentRecord
	if err := c.doRequest(ctx, "GET", endpoint, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch document ids: %w", err)
	}

	ids := make(models.DocumentIDSet, len(docs))
	for _, doc := range docs {
		ids[doc.ID] = struct{}{}
	}

	return ids, nil
}

// ProbeTable checks that a table is reachable by selecting one id from it.
func (c *supabaseHTTPClient) ProbeTable(ctx context.Context, table string) error {
	params := map[string]string{
		"select": "id",
		"limit":  "1",
	}
	endpoint := "/" + table + buildQueryParams(params)

	var result []map[string]interface{}
	return c.doRequest(ctx, "GET", endpoint, &result)
}

// TableColumns reads one full row and reports the column names it carries.
// Status is "success", or "empty" when the table exists but has no rows.
func (c *supabaseHTTPClient) TableColumns(ctx context.Context, table string) (string, []string, error) {
	params := map[string]string{
		"select": "*",
		"limit":  "1",
	}
	endpoint := "/" + table + buildQueryParams(params)

	var rows []map[string]interface{}
	if err := c.doRequest(ctx, "GET", endpoint, &rows); err != nil {
		return "error", nil, err
	}

	if len(rows) == 0 {
		return "empty", []string{}, nil
	}

	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	return "success", columns, nil
}

// CountRows asks PostgREST for an exact row count and reads it from the
// Content-Range response header (e.g. "0-0/42").
func (c *supabaseHTTPClient) CountRows(ctx context.Context, table string) (int64, error) {
	endpoint := "/" + table + buildQueryParams(map[string]string{"select": "id"})

	req, err := http.NewRequestWithContext(ctx, "HEAD", c.baseURL+endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range", "0-0")
	req.Header.Set("Range-Unit", "items")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.NewNetworkError(apperrors.ErrCodeNetworkConnection, "count request to store failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return 0, c.errorFromResponse(resp.StatusCode, body)
	}

	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

// parseContentRangeTotal extracts the total from a Content-Range header.
func parseContentRangeTotal(header string) (int64, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0, fmt.Errorf("missing Content-Range header in count response")
	}

	total := header[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("store did not report an exact count")
	}

	count, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range total %q: %w", total, err)
	}

	return count, nil
}

// ProbeColumn checks that a single column is reachable and returns data.
// Selecting an enum-typed column succeeds only if the enum type behind it was
// defined, so this doubles as a weak enum-type check over REST.
func (c *supabaseHTTPClient) ProbeColumn(ctx context.Context, table, column string) error {
	params := map[string]string{
		"select": column,
		"limit":  "1",
	}
	endpoint := "/" + table + buildQueryParams(params)

	var result []map[string]interface{}
	return c.doRequest(ctx, "GET", endpoint, &result)
}
