package credential

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"devstation/internal/logger"
)

// KeyUploader registers an SSH public key with a forge account (GitHub's
// user-keys endpoint by default) using a personal access token. No timeout
// beyond the transport default; a failed upload degrades to the manual
// fallback path at the call site.
type KeyUploader struct {
	URL string // e.g. https://api.github.com/user/keys
	Rec *logger.Recorder
}

// keyRequest is the JSON body the keys endpoint expects.
type keyRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

// Upload returns the UploadFunc that posts publicKey under title. The
// token authorizes the request and is not retained after it is sent.
func (u KeyUploader) Upload(title, publicKey string) UploadFunc {
	return func(token []byte) error {
		body, err := json.Marshal(keyRequest{Title: title, Key: publicKey})
		if err != nil {
			return fmt.Errorf("failed to encode key upload request: %w", err)
		}

		req, err := http.NewRequest(http.MethodPost, u.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build key upload request: %w", err)
		}
		req.Header.Set("Authorization", "token "+string(token))
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("key upload request failed: %w", err)
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				u.Rec.Warnf("failed to close upload response body: %v", cerr)
			}
		}()

		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("key upload rejected: HTTP status %d", resp.StatusCode)
		}
		u.Rec.Infof("public key %q registered with forge", title)
		return nil
	}
}
