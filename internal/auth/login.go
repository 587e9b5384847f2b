package auth

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/SREYASABU/Tubenor/internal/browser"
)

// loginTimeout is the maximum time to wait for the user to complete the
// Google consent screen.
const loginTimeout = 5 * time.Minute

// callbackResult carries the outcome of one redirect hit.
type callbackResult struct {
	code string
	err  error
}

// InteractiveLogin runs the authorization-code flow end to end for a CLI
// user: it starts a loopback listener on the configured redirect URI,
// opens a visible Chromium window on the Google consent screen, waits for
// the redirect, and exchanges the code. The resulting credential is stored
// under a freshly minted user id, which is returned.
func (f *OAuthFlow) InteractiveLogin(ctx context.Context) (string, *Credential, error) {
	if !f.Configured() {
		return "", nil, ErrUnconfigured
	}

	redirect, err := url.Parse(f.provider.cfg.RedirectURI)
	if err != nil {
		return "", nil, fmt.Errorf("parsing redirect URI: %w", err)
	}
	if redirect.Hostname() != "localhost" && redirect.Hostname() != "127.0.0.1" {
		return "", nil, fmt.Errorf("interactive login needs a loopback redirect URI, got %q", f.provider.cfg.RedirectURI)
	}
	port := redirect.Port()
	if port == "" {
		port = "80"
	}

	state := NewState()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", errMsg)}
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("oauth state mismatch")}
			return
		}
		fmt.Fprintln(w, "Login complete. You can close this window and return to the terminal.")
		results <- callbackResult{code: q.Get("code")}
	})

	ln, err := net.Listen("tcp", "localhost:"+port)
	if err != nil {
		return "", nil, fmt.Errorf("listening on redirect port %s: %w", port, err)
	}
	srv := &http.Server{Handler: mux}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			results <- callbackResult{err: fmt.Errorf("redirect listener: %w", serveErr)}
		}
	}()
	defer srv.Close()

	consentURL := f.AuthURL(state)

	log.Println("auth: launching browser for Google consent...")
	log.Printf("auth: if no window opens, visit: %s", consentURL)

	// Visible browser, the user has to click through the consent screen.
	pool := browser.NewPool(false)
	pool.SetTimeout(loginTimeout)
	defer pool.Cleanup()

	browserCtx, cancel := pool.NewContext(ctx)
	defer cancel()

	go func() {
		if navErr := chromedp.Run(browserCtx, chromedp.Navigate(consentURL)); navErr != nil {
			log.Printf("auth: warning: browser navigation failed (%v), complete the login manually", navErr)
		}
	}()

	log.Println("auth: waiting for consent to complete...")

	var code string
	select {
	case res := <-results:
		if res.err != nil {
			return "", nil, res.err
		}
		code = res.code
	case <-time.After(loginTimeout):
		return "", nil, fmt.Errorf("timed out waiting for consent after %s", loginTimeout)
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}

	if code == "" {
		return "", nil, fmt.Errorf("redirect carried no authorization code")
	}

	userID, cred, err := f.Exchange(ctx, code)
	if err != nil {
		return "", nil, err
	}

	log.Printf("auth: login complete, user_id=%s", userID)
	return userID, cred, nil
}
