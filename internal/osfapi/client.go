package osfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"regdraft/internal/cachemanager"
	"regdraft/internal/log"
	"regdraft/internal/registration"
	"regdraft/internal/schema"
)

// DefaultBlockTTL bounds how long schema blocks stay cached. Schemas are
// immutable server-side, so a generous TTL is safe.
const DefaultBlockTTL = 10 * time.Minute

// ClientConfig configures the API client.
type ClientConfig struct {
	BaseURL string
	// DraftID selects the draft ResolveDraft edits.
	DraftID string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	// SkipCache bypasses the schema-block cache.
	SkipCache bool
	// BlockTTL overrides DefaultBlockTTL when positive.
	BlockTTL time.Duration
}

// Client is the JSON API client for the registry. It implements the
// wizard's DraftProvider, BlockLoader, FileReloader and NodeLister
// collaborator interfaces.
type Client struct {
	baseURL  string
	draftID  string
	http     *http.Client
	blockTTL time.Duration
	blocks   *cachemanager.ReadThroughCache[string, []schema.Block, registration.Schema]
}

// NewClient creates a client for the given base URL.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		draftID:  cfg.DraftID,
		http:     cfg.HTTPClient,
		blockTTL: cfg.BlockTTL,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.blockTTL <= 0 {
		c.blockTTL = DefaultBlockTTL
	}

	cache := cachemanager.NewInMemoryCacheManager[string, []schema.Block](
		"schema-blocks", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	c.blocks = cachemanager.NewReadThroughCache[string, []schema.Block, registration.Schema](
		cache, c.fetchSchemaBlocks, cfg.SkipCache)

	return c
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s %s body: %w", method, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	log.Debug(log.CatAPI, "request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// ResolveDraft fetches the configured draft registration.
func (c *Client) ResolveDraft(ctx context.Context) (registration.Draft, error) {
	var rec registration.DraftRecord
	if err := c.getJSON(ctx, "/v2/draft_registrations/"+c.draftID, &rec); err != nil {
		return nil, err
	}
	return &remoteDraft{client: c, rec: rec}, nil
}

// CreateDraft creates a fresh draft for a schema and returns its record.
func (c *Client) CreateDraft(ctx context.Context, schemaID string) (registration.DraftRecord, error) {
	var rec registration.DraftRecord
	body := registration.DraftRecord{SchemaID: schemaID}
	if err := c.sendJSON(ctx, http.MethodPost, "/v2/draft_registrations", body, &rec); err != nil {
		return registration.DraftRecord{}, err
	}
	return rec, nil
}

// SchemaBlocks loads the ordered block collection for a schema through the
// read-through cache.
func (c *Client) SchemaBlocks(ctx context.Context, s registration.Schema) ([]schema.Block, error) {
	return c.blocks.Get(ctx, s.ID, s, c.blockTTL)
}

func (c *Client) fetchSchemaBlocks(ctx context.Context, s registration.Schema) ([]schema.Block, error) {
	var blocks []schema.Block
	if err := c.getJSON(ctx, "/v2/schemas/"+s.ID+"/schema_blocks", &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// ReloadFile re-fetches a file's current state.
func (c *Client) ReloadFile(ctx context.Context, id string) (registration.File, error) {
	var f registration.File
	if err := c.getJSON(ctx, "/v2/files/"+id, &f); err != nil {
		return registration.File{}, err
	}
	return f, nil
}

// RegisteredDescendants lists the registered descendants of a node.
func (c *Client) RegisteredDescendants(ctx context.Context, nodeID string) ([]registration.Node, error) {
	var nodes []registration.Node
	if err := c.getJSON(ctx, "/v2/nodes/"+nodeID+"/registered_descendants", &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// remoteDraft adapts a DraftRecord to the registration.Draft interface,
// pushing saves back through the client.
type remoteDraft struct {
	client *Client

	mu  sync.Mutex
	rec registration.DraftRecord
}

func (d *remoteDraft) ID() string {
	return d.rec.ID
}

func (d *remoteDraft) RegistrationResponses() registration.ResponseMap {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rec.RegistrationResponses.Clone()
}

func (d *remoteDraft) SetRegistrationResponses(m registration.ResponseMap) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rec.RegistrationResponses = m
}

func (d *remoteDraft) Schema(ctx context.Context) (registration.Schema, error) {
	var s registration.Schema
	if err := d.client.getJSON(ctx, "/v2/schemas/"+d.rec.SchemaID, &s); err != nil {
		return registration.Schema{}, err
	}
	return s, nil
}

func (d *remoteDraft) Save(ctx context.Context) error {
	d.mu.Lock()
	rec := d.rec
	rec.RegistrationResponses = d.rec.RegistrationResponses.Clone()
	d.mu.Unlock()

	var saved registration.DraftRecord
	if err := d.client.sendJSON(ctx, http.MethodPut, "/v2/draft_registrations/"+rec.ID, rec, &saved); err != nil {
		return err
	}

	d.mu.Lock()
	d.rec.UpdatedAt = saved.UpdatedAt
	d.mu.Unlock()
	return nil
}
