package main

import (
	"net/http"
	"time"

	"docspeech-backend/internal/client"
)

func newAPIClient(server string, timeout time.Duration) (*client.APIClient, error) {
	return client.NewAPIClient(server, &http.Client{Timeout: timeout})
}
