package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

var ErrEmptyResult = errors.New("workflow returned no data")

type Config struct {
	BaseURL      string
	ExtractPath  string
	GeneratePath string
	Timeout      time.Duration
}

// Client talks to the external workflow engine's webhooks. Calls are made
// once, never retried.
type Client struct {
	cfg     Config
	client  *http.Client
	metrics *metrics.Metrics
}

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}
}

type extractPayload struct {
	FileURL        string     `json:"file_url"`
	FileName       string     `json:"file_name"`
	Type           string     `json:"type"`
	Year           int        `json:"year"`
	HeadquartersID uuid.UUID  `json:"headquarters_id"`
	UserID         *uuid.UUID `json:"user_id"`
	AccessToken    string     `json:"access_token,omitempty"`
}

// Extract runs the document extraction workflow for a stored file.
func (c *Client) Extract(ctx context.Context, req invoice.ExtractRequest) (invoice.Fields, error) {
	payload := extractPayload{
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		Type:           string(req.Type),
		Year:           req.Year,
		HeadquartersID: req.HeadquartersID,
		UserID:         req.UserID,
	}

	if req.Token != "" {
		payload.AccessToken = "Bearer " + req.Token
	}

	start := time.Now()

	fields, err := c.extract(ctx, payload)
	c.metrics.WorkflowCall("extract", time.Since(start), err)

	return fields, err
}

func (c *Client) extract(ctx context.Context, payload extractPayload) (invoice.Fields, error) {
	body, err := c.post(ctx, c.cfg.ExtractPath, "", payload)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding extraction result: %w", err)
	}

	// The workflow answers with either an object or a one-element array.
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return nil, ErrEmptyResult
		}

		raw = list[0]
	}

	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, ErrEmptyResult
	}

	return invoice.Fields(obj), nil
}

type generatePayload struct {
	CompanyID   uuid.UUID         `json:"company_id"`
	InvoiceType string            `json:"invoice_type"`
	Year        int               `json:"year"`
	Invoices    []generateInvoice `json:"invoices"`
}

type generateInvoice struct {
	ID             uuid.UUID      `json:"id"`
	Type           string         `json:"type"`
	Year           int            `json:"year"`
	HeadquartersID uuid.UUID      `json:"headquarters_id"`
	Data           invoice.Fields `json:"data"`
	CreatedAt      time.Time      `json:"created_at"`
}

// GenerateKPIs asks the workflow to compute and store a baseline.
func (c *Client) GenerateKPIs(ctx context.Context, req kpi.GenerateRequest) error {
	payload := generatePayload{
		CompanyID:   req.CompanyID,
		InvoiceType: string(req.Type),
		Year:        req.Year,
		Invoices:    make([]generateInvoice, 0, len(req.Invoices)),
	}

	for _, inv := range req.Invoices {
		payload.Invoices = append(payload.Invoices, generateInvoice{
			ID:             inv.ID,
			Type:           string(inv.Type),
			Year:           inv.Year,
			HeadquartersID: inv.HeadquartersID,
			Data:           inv.Data,
			CreatedAt:      inv.CreatedAt,
		})
	}

	start := time.Now()

	_, err := c.post(ctx, c.cfg.GeneratePath, req.Token, payload)
	c.metrics.WorkflowCall("generate_kpis", time.Since(start), err)

	return err
}

func (c *Client) post(ctx context.Context, path, token string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	return body, nil
}
