package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateDocument(t *testing.T) {
	var gotPath, gotProject, gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotProject = r.Header.Get("X-Appwrite-Project")
		gotKey = r.Header.Get("X-Appwrite-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"$id":           "generated-id",
			"$databaseId":   "db-1",
			"$collectionId": "coll-1",
			"$createdAt":    "2024-01-15T10:30:00.000+00:00",
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		Endpoint:  server.URL,
		ProjectID: "proj-1",
		APIKey:    "api-key",
	})

	doc, err := client.CreateDocument(context.Background(), "db-1", "coll-1", UniqueID, map[string]string{"deviceId": "d1"})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}

	if doc.ID != "generated-id" {
		t.Errorf("doc.ID = %q, want %q", doc.ID, "generated-id")
	}
	if gotPath != "/databases/db-1/collections/coll-1/documents" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotProject != "proj-1" {
		t.Errorf("X-Appwrite-Project = %q, want %q", gotProject, "proj-1")
	}
	if gotKey != "api-key" {
		t.Errorf("X-Appwrite-Key = %q, want %q", gotKey, "api-key")
	}
	if gotBody["documentId"] != UniqueID {
		t.Errorf("documentId = %v, want %q", gotBody["documentId"], UniqueID)
	}
	data, ok := gotBody["data"].(map[string]any)
	if !ok || data["deviceId"] != "d1" {
		t.Errorf("data = %v, want deviceId d1", gotBody["data"])
	}
}

func TestCreateDocument_PerRequestKeyOverride(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Appwrite-Key")
		json.NewEncoder(w).Encode(map[string]string{"$id": "doc-1"})
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, APIKey: "configured-key"})

	ctx := ContextWithKey(context.Background(), "override-key")
	if _, err := client.CreateDocument(ctx, "db", "coll", UniqueID, nil); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}

	if gotKey != "override-key" {
		t.Errorf("X-Appwrite-Key = %q, want %q", gotKey, "override-key")
	}
}

func TestCreateDocument_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Invalid API key",
			"code":    401,
			"type":    "user_unauthorized",
		})
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL})

	_, err := client.CreateDocument(context.Background(), "db", "coll", UniqueID, nil)
	if err == nil {
		t.Fatal("CreateDocument() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("error = %v, want Appwrite message included", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestCreateDocument_ErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL})

	_, err := client.CreateDocument(context.Background(), "db", "coll", UniqueID, nil)
	if err == nil {
		t.Fatal("CreateDocument() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})

	if client.config.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", client.config.Endpoint, DefaultEndpoint)
	}
	if client.httpClient.Timeout <= 0 {
		t.Error("expected a default request timeout")
	}
}

func TestKeyFromContext(t *testing.T) {
	if _, ok := KeyFromContext(context.Background()); ok {
		t.Error("KeyFromContext() = true on bare context, want false")
	}

	ctx := ContextWithKey(context.Background(), "")
	if _, ok := KeyFromContext(ctx); ok {
		t.Error("KeyFromContext() = true for empty key, want false")
	}
}
