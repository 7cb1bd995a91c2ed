// Package credential handles short-lived secrets: a token is read without
// echo, validated, used by exactly one network action, and overwritten
// before control returns to the pipeline. Token values never reach the run
// log or any file.
package credential

import (
	"fmt"

	"devstation/internal/logger"
	"devstation/internal/prompt"
)

// UploadFunc is the single consumer of an acquired token. It must not
// retain the slice beyond the call.
type UploadFunc func(token []byte) error

// Wipe overwrites a secret buffer in place.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// AcquireAndConsume reads a token for the given purpose through the
// non-echoing secret channel, validates its format, and on success passes
// it to upload exactly once. Regardless of outcome (success, validation
// failure, or upload failure) the secret is overwritten before this
// function returns; callers never hold a second handle to it.
//
// Errors here are non-fatal to the pipeline: the caller degrades to
// printing manual fallback instructions and continues.
func AcquireAndConsume(rec *logger.Recorder, ask *prompt.Asker, purpose string, upload UploadFunc) error {
	token, err := ask.AskSecret(purpose, prompt.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to acquire token: %w", err)
	}
	defer Wipe(token)

	rec.Infof("token accepted for: %s", purpose)
	if err := upload(token); err != nil {
		return fmt.Errorf("failed to use token: %w", err)
	}
	return nil
}
