//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

// The target instance must start from an empty data directory so the admin
// signup below is the first one.
func TestSystem_E2E_CatalogPersistence(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	username := fmt.Sprintf("admin_%d", rand.Intn(100000))
	pass := "password123"

	doJSON(t, http.MethodPost, baseURL+"/auth/admin/signup", map[string]any{
		"username":  username,
		"password":  pass,
		"shop_name": "Kobbler",
	}, nil, http.StatusCreated)

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/auth/admin/login", map[string]any{
		"username": username,
		"password": pass,
	}, &loginResp, http.StatusOK)
	if loginResp.AccessToken == "" {
		t.Fatalf("empty access_token")
	}

	brand := fmt.Sprintf("E2E Runner %d", time.Now().UnixNano()%100000)
	doJSONAuth(t, http.MethodPost, baseURL+"/shops/Kobbler/products", loginResp.AccessToken, map[string]any{
		"name":  brand,
		"stock": "3",
		"price": "999",
		"sizes": "8,9",
	}, nil, http.StatusCreated)

	searchURL := baseURL + "/products?name=" + url.QueryEscape(brand)
	assertOneMatch(t, searchURL)

	if os.Getenv("E2E_RESTART") == "1" {
		restartShopEaseContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		assertOneMatch(t, searchURL)
	}

	doJSONAuth(t, http.MethodDelete, baseURL+"/shops/Kobbler/products/"+url.PathEscape(brand), loginResp.AccessToken, nil, nil, http.StatusNoContent)
}

func assertOneMatch(t *testing.T, url string) {
	t.Helper()

	var matches []map[string]any
	doJSON(t, http.MethodGet, url, nil, &matches, http.StatusOK)
	if len(matches) != 1 || matches[0]["shop"] != "Kobbler" {
		t.Fatalf("unexpected matches: %#v", matches)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()
	doJSONAuth(t, method, url, "", body, out, want)
}

func doJSONAuth(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
