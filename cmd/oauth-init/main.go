// Command oauth-init performs the one-time browser consent the
// spreadsheet mirror needs when running with a personal Google account
// instead of a service account. It exchanges the consent code for a
// refresh token and writes it where the worker looks for it
// (GOOGLE_OAUTH_TOKEN_FILE, default token.json).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const consentTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := clientConfig()
	if err != nil {
		log.Fatalf("oauth client: %v", err)
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	// The consent screen redirects here; the OAuth client must list
	// this URI as authorized.
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	code, err := waitForConsent(cfg, port)
	if err != nil {
		log.Fatalf("authorization: %v", err)
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("token exchange: %v", err)
	}

	out := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	if out == "" {
		out = "token.json"
	}
	if err := saveToken(out, token); err != nil {
		log.Fatalf("save token: %v", err)
	}
	fmt.Printf("Token written to %s. Point the worker's GOOGLE_OAUTH_TOKEN_FILE at it.\n", out)
}

// clientConfig reads the OAuth client definition from the environment,
// inline JSON taking precedence over a file path.
func clientConfig() (*oauth2.Config, error) {
	var raw []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		raw = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		b, err := os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	return google.ConfigFromJSON(raw, sheets.SpreadsheetsScope)
}

// waitForConsent serves the redirect callback on a local listener,
// prints the consent URL, and returns the authorization code.
func waitForConsent(cfg *oauth2.Config, port string) (string, error) {
	codes := make(chan string, 1)
	fails := make(chan error, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if reason := r.URL.Query().Get("error"); reason != "" {
			http.Error(w, "consent denied: "+reason, http.StatusBadRequest)
			fails <- errors.New("consent denied: " + reason)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this tab.")
		codes <- r.URL.Query().Get("code")
	})
	go func() { _ = srv.ListenAndServe() }()
	defer srv.Close()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)

	fmt.Printf("Open this URL in a browser to authorize the mirror:\n%s\n",
		cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	select {
	case code := <-codes:
		return code, nil
	case err := <-fails:
		return "", err
	case <-time.After(consentTimeout):
		return "", errors.New("timed out waiting for consent")
	case <-interrupted:
		return "", errors.New("interrupted")
	}
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
