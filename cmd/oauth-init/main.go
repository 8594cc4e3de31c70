// Command oauth-init walks the browser OAuth flow once and stores the
// resulting token on disk so the export worker can reach the backup
// spreadsheet with user credentials instead of a service account.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"

	applog "tracker/internal/log"
)

func main() {
	logger := applog.New(applog.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error("Token setup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := oauthConfig()
	if err != nil {
		return err
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	// The OAuth client must list this URL among its authorized redirect URIs.
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	code, err := authorize(ctx, cfg, port)
	if err != nil {
		return err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}

	path := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	if path == "" {
		path = "token.json"
	}
	if err := saveToken(path, token); err != nil {
		return err
	}
	fmt.Printf("Saved token to %s\n", path)
	return nil
}

// oauthConfig builds the OAuth client config from
// GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE.
func oauthConfig() (*oauth2.Config, error) {
	var raw []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		raw = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		var err error
		raw, err = os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
	default:
		return nil, errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	cfg, err := google.ConfigFromJSON(raw, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

// authorize prints the consent URL, runs a localhost callback listener,
// and returns the authorization code Google redirects back with. The
// callback checks the state parameter against the one sent out.
func authorize(ctx context.Context, cfg *oauth2.Config, port string) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}

	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "Authorization refused: "+q.Get("error"), http.StatusBadRequest)
			resultCh <- result{err: fmt.Errorf("authorization refused: %s", q.Get("error"))}
		case q.Get("state") != state:
			http.Error(w, "State mismatch", http.StatusBadRequest)
			resultCh <- result{err: errors.New("state parameter mismatch")}
		default:
			fmt.Fprintln(w, "Authorized. You can close this window.")
			resultCh <- result{code: q.Get("code")}
		}
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			resultCh <- result{err: fmt.Errorf("callback listener: %w", err)}
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case res := <-resultCh:
		return res.code, res.err
	case <-time.After(5 * time.Minute):
		return "", errors.New("authorization timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func saveToken(path string, token *oauth2.Token) error {
	raw, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
