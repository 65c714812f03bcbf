package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

func postJSON(t *testing.T, url string, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Request to %s failed: %v", url, err)
	}
	return resp
}

func reservationPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":   "Alice Smith",
		"email":  fmt.Sprintf("alice+%d@example.com", time.Now().UnixNano()),
		"phone":  "+5521999999999",
		"date":   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"time":   "19:30",
		"guests": 2,
	}
}

// TestCreateReservation exercises the public reservation endpoint
func TestCreateReservation(t *testing.T) {
	baseURL := getBaseURL(t)

	resp := postJSON(t, baseURL+"/reservations", reservationPayload())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	reservation, ok := result["reservation"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected reservation object in response, got %v", result)
	}
	if reservation["status"] != "pending" {
		t.Errorf("Expected status 'pending', got %v", reservation["status"])
	}
}

// TestCreateReservation_Validation verifies bad input is rejected
func TestCreateReservation_Validation(t *testing.T) {
	baseURL := getBaseURL(t)

	payload := reservationPayload()
	payload["guests"] = 50

	resp := postJSON(t, baseURL+"/reservations", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestSendVerification_Validation verifies the verification endpoint rejects
// a malformed email
func TestSendVerification_Validation(t *testing.T) {
	baseURL := getBaseURL(t)

	resp := postJSON(t, baseURL+"/reservations/verification", map[string]interface{}{
		"email": "not-an-email",
		"name":  "Alice",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestSendVerification_Honeypot verifies trapped submissions are rejected
func TestSendVerification_Honeypot(t *testing.T) {
	baseURL := getBaseURL(t)

	resp := postJSON(t, baseURL+"/reservations/verification", map[string]interface{}{
		"email":   fmt.Sprintf("bot+%d@example.com", time.Now().UnixNano()),
		"name":    "Bot",
		"website": "http://spam.example",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", resp.StatusCode)
	}
}

// TestAdminEndpointsRequireAuth verifies the back-office surface fails closed
func TestAdminEndpointsRequireAuth(t *testing.T) {
	baseURL := getBaseURL(t)
	client := &http.Client{Timeout: 10 * time.Second}

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req, err := http.NewRequest(method, baseURL+"/reservations", nil)
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s without token: expected status 401, got %d", method, resp.StatusCode)
		}
	}
}

// TestAdminListReservations exercises the admin listing with a real token
func TestAdminListReservations(t *testing.T) {
	baseURL := getBaseURL(t)
	token := os.Getenv("TEST_ADMIN_TOKEN")
	if token == "" {
		t.Skip("TEST_ADMIN_TOKEN not set, skipping admin E2E test")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(http.MethodGet, baseURL+"/reservations", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := result["pagination"]; !ok {
		t.Errorf("Expected pagination metadata in response, got %v", result)
	}
}
