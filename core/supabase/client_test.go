package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"sareeadmin.GO/core/storage"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{URL: srv.URL, Key: "service-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RequiresURLAndKey(t *testing.T) {
	if _, err := NewClient(Options{URL: "http://x"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestBucket_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/storage/v1/object/list/product-images" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var body listRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Limit != 2 || body.Offset != 4 || body.SortBy.Column != "name" || body.SortBy.Order != "asc" {
			t.Errorf("body = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"name":"folder","id":null,"metadata":null},
			{"name":"red-silk.jpg","id":"9b1c","created_at":"2026-02-01T10:00:00Z","updated_at":"2026-02-01T10:00:00Z",
			 "metadata":{"size":2048,"mimetype":"image/jpeg","eTag":"\"abc\"","cacheControl":"max-age=3600"}}
		]`)
	})

	objs, err := c.Bucket("product-images").List(context.Background(), storage.ListOptions{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("len = %d, want 2", len(objs))
	}
	if !objs[0].IsFolder() {
		t.Error("null id entry should be a folder")
	}
	f := objs[1]
	if f.ID != "9b1c" || f.Metadata.Size != 2048 || f.Metadata.MimeType != "image/jpeg" {
		t.Errorf("file = %+v", f)
	}
	if f.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestBucket_ListError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"statusCode":"502","error":"Bad Gateway","message":"upstream down"}`)
	})

	_, err := c.Bucket("b").List(context.Background(), storage.ListOptions{Limit: 10})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_DoesNotRetryHTTPErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c.http.RetryMax = 3

	if _, err := c.Bucket("b").List(context.Background(), storage.ListOptions{Limit: 1}); err == nil {
		t.Fatal("want error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestBucket_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/storage/v1/object/b/2026/red silk.jpg" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "image/jpeg" || r.Header.Get("x-upsert") != "false" {
			t.Errorf("headers = %v", r.Header)
		}
		data, _ := io.ReadAll(r.Body)
		if string(data) != "jpegdata" {
			t.Errorf("body = %q", data)
		}
		_, _ = io.WriteString(w, `{"Key":"b/2026/red silk.jpg"}`)
	})

	if err := c.Bucket("b").Upload(context.Background(), "2026/red silk.jpg", strings.NewReader("jpegdata"), "image/jpeg"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestBucket_Remove(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/storage/v1/object/b" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Prefixes) != 2 {
			t.Errorf("prefixes = %v", body.Prefixes)
		}
		_, _ = io.WriteString(w, `[]`)
	})

	if err := c.Bucket("b").Remove(context.Background(), []string{"a.jpg", "b.jpg"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestBucket_PublicURL(t *testing.T) {
	c, _ := NewClient(Options{URL: "https://proj.supabase.co/", Key: "k"})
	got := c.Bucket("product-images").PublicURL("sarees/red silk.jpg")
	want := "https://proj.supabase.co/storage/v1/object/public/product-images/sarees/red%20silk.jpg"
	if got != want {
		t.Errorf("PublicURL = %s, want %s", got, want)
	}
}

func TestClient_GetUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer user-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"msg":"invalid JWT"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"u1","email":"admin@store.test","role":"authenticated"}`)
	})

	u, err := c.GetUser(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Email != "admin@store.test" {
		t.Errorf("Email = %s", u.Email)
	}

	_, err = c.GetUser(context.Background(), "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid JWT" {
		t.Errorf("err = %v", err)
	}
}
