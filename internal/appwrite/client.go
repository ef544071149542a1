// Package appwrite is a minimal client for the Appwrite Databases REST API,
// covering the single operation this service consumes: document creation.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UniqueID asks the server to mint a unique document ID on creation.
const UniqueID = "unique()"

const (
	// DefaultEndpoint is the hosted Appwrite API base URL.
	DefaultEndpoint = "https://cloud.appwrite.io/v1"

	defaultTimeout = 30 * time.Second
)

// Config holds Appwrite connection settings.
type Config struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

// Client talks to one Appwrite project.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient builds a client, filling in the hosted endpoint and a default
// request timeout when unset.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Document is the subset of Appwrite's document envelope this service reads.
type Document struct {
	ID           string `json:"$id"`
	CollectionID string `json:"$collectionId"`
	DatabaseID   string `json:"$databaseId"`
	CreatedAt    string `json:"$createdAt"`
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

type createDocumentRequest struct {
	DocumentID string `json:"documentId"`
	Data       any    `json:"data"`
}

// CreateDocument creates one document in the given database collection.
// Pass UniqueID as documentID to let the server generate one. The API key
// comes from the client config unless a per-request key was attached to ctx
// via ContextWithKey.
func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (*Document, error) {
	if c == nil {
		return nil, fmt.Errorf("appwrite client not configured")
	}

	bodyBytes, err := json.Marshal(createDocumentRequest{
		DocumentID: documentID,
		Data:       data,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	url := fmt.Sprintf("%s/databases/%s/collections/%s/documents", c.config.Endpoint, databaseID, collectionID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Appwrite-Project", c.config.ProjectID)
	request.Header.Set("X-Appwrite-Key", c.requestKey(ctx))

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errBody apiError
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = resp.Status
		}
		return nil, fmt.Errorf("appwrite response status %d: %s", resp.StatusCode, errBody.Message)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &doc, nil
}

func (c *Client) requestKey(ctx context.Context) string {
	if key, ok := KeyFromContext(ctx); ok {
		return key
	}
	return c.config.APIKey
}
