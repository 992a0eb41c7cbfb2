package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// guidePDFDir is the server-side directory prefix for generated guides. The
// service sometimes returns pdf_file already prefixed with it, so the download
// URL must strip a doubled segment before re-adding it.
const guidePDFDir = "guide_pdf"

// ServiceError is a non-2xx reply from the trip service, carrying the
// human-readable detail when the body provided one.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("trip service: http %d", e.Status)
}

// Client talks to the trip service. The service contract is fixed: the client
// never retries and enforces no timeout beyond the one on its http.Client.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the service rooted at base. A zero timeout
// means no transport timeout.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// Base returns the service root URL without a trailing slash.
func (c *Client) Base() string { return c.base }

// PlanTrip requests a route between the input's endpoints. Fields beyond the
// documented ones are passed through opaquely in Plan.Extra.
func (c *Client) PlanTrip(ctx context.Context, in Input) (*Plan, error) {
	body, err := c.post(ctx, "/plan-trip", planRequest{
		StartPoint:    in.Start,
		EndPoint:      in.End,
		TransportMode: string(in.Mode),
	})
	if err != nil {
		return nil, err
	}

	var resp planResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}
	if resp.MapFile == "" || resp.DataFile == "" {
		return nil, fmt.Errorf("plan response missing map_file or data_file")
	}

	var extra map[string]json.RawMessage
	_ = json.Unmarshal(body, &extra)
	for _, k := range []string{"success", "message", "map_file", "data_file"} {
		delete(extra, k)
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &Plan{
		MapFile:  resp.MapFile,
		DataFile: resp.DataFile,
		Message:  resp.Message,
		Extra:    extra,
	}, nil
}

// GenerateGuide asks the service to build a guide document from a previously
// planned trip's data file and returns the server-side pdf reference.
func (c *Client) GenerateGuide(ctx context.Context, dataFile string) (string, error) {
	body, err := c.post(ctx, "/generate-guide", guideRequest{DataFile: dataFile})
	if err != nil {
		return "", err
	}
	var resp guideResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode guide response: %w", err)
	}
	if resp.PDFFile == "" {
		return "", fmt.Errorf("guide response missing pdf_file")
	}
	return resp.PDFFile, nil
}

// MapURL derives the embeddable route-map URL for a plan's map file. The
// service serves maps as HTML and appends the extension itself; mirroring that
// here keeps the reference directly fetchable.
func (c *Client) MapURL(mapFile string) string {
	if !strings.HasSuffix(mapFile, ".html") {
		mapFile += ".html"
	}
	return c.base + "/map/" + mapFile
}

// GuideURL derives the download URL for a generated guide, with the directory
// segment appearing exactly once however the service spelled pdf_file.
func (c *Client) GuideURL(pdfFile string) string {
	return c.base + "/download-guide/" + guidePDFDir + "/" + NormalizeGuidePath(pdfFile)
}

// NormalizeGuidePath strips the guide directory prefix from a pdf reference so
// URL construction can re-add it exactly once. Idempotent.
func NormalizeGuidePath(pdfFile string) string {
	for strings.HasPrefix(pdfFile, guidePDFDir+"/") {
		pdfFile = strings.TrimPrefix(pdfFile, guidePDFDir+"/")
	}
	return pdfFile
}

// FetchGuide streams the generated guide into w.
func (c *Client) FetchGuide(ctx context.Context, pdfFile string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GuideURL(pdfFile), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// decodeError reads a failure body, preferring the service's detail message.
func decodeError(resp *http.Response) error {
	var apiErr struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	return &ServiceError{Status: resp.StatusCode, Detail: apiErr.Detail}
}
