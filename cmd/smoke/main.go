// Command smoke exercises a running `ledger serve` instance end to end.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("LEDGER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	fmt.Println("Starting smoke test against", baseURL)
	if !waitHealthy(baseURL, 10*time.Second) {
		fmt.Println("FAILED: server not healthy")
		os.Exit(1)
	}

	steps := []struct {
		name    string
		method  string
		path    string
		payload interface{}
	}{
		{"summary", http.MethodGet, "/summary", nil},
		{"list entities", http.MethodGet, "/entities", nil},
		{"search", http.MethodPost, "/search", map[string]string{"query": "capital"}},
		{"duplicates", http.MethodGet, "/duplicates", nil},
		{"clusters", http.MethodGet, "/clusters", nil},
	}

	for i, s := range steps {
		fmt.Printf("%d. %s...\n", i+1, s.name)
		if !sendRequest(baseURL, s.method, s.path, s.payload) {
			fmt.Printf("FAILED: %s\n", s.name)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", s.name)
	}
}

func waitHealthy(baseURL string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Unexpected status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	fmt.Printf("Response: %s\n", truncate(string(respBody), 200))
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
