package google

import (
	"context"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const datastoreScope = "https://www.googleapis.com/auth/datastore"

// NewHTTPClient returns an HTTP client authorized against the hosted document
// database using the service-account credentials bundle. An empty path yields
// a plain client, which is only valid against the emulator.
func NewHTTPClient(ctx context.Context, credentialsPath string) (*http.Client, error) {
	if credentialsPath == "" {
		return &http.Client{Timeout: 10 * time.Second}, nil
	}

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, datastoreScope)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}
