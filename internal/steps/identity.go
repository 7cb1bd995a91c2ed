package steps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devstation/internal/config"
	"devstation/internal/credential"
	"devstation/internal/prompt"
	"devstation/internal/run"
)

// sshKeyFile is the private key path (under $HOME) whose existence is the
// goal state of the SSH key step.
const sshKeyFile = ".ssh/id_ed25519"

// identityStep sets the global version-control identity. The name and
// email come from the environment defaults when present, otherwise from
// validated interactive prompts. Committing under a malformed identity
// corrupts downstream history, so this step is fatal and prompt
// exhaustion aborts the pipeline.
func identityStep(defaults config.Defaults) run.Step {
	return run.Step{
		Name:  "version-control identity",
		Fatal: true,
		Guard: func(c *run.Context) (bool, error) {
			return gitIdentitySet(c.Home)
		},
		Body: func(c *run.Context) error {
			// The prompts live inside the action so a simulated run logs
			// one would-execute line instead of blocking on input.
			return c.Exec.Run(c, run.Do(
				"configure version-control identity (interactive)",
				func(c *run.Context) error {
					name, email, err := identityAnswers(c, defaults)
					if err != nil {
						return err
					}
					if err := c.Exec.Run(c, run.Command(
						"set git user.name",
						"git", "config", "--global", "user.name", name)); err != nil {
						return err
					}
					return c.Exec.Run(c, run.Command(
						"set git user.email",
						"git", "config", "--global", "user.email", email))
				}))
		},
	}
}

// identityAnswers resolves the name and email, preferring pre-seeded
// environment defaults over prompting, but validating both sources with
// the same rules.
func identityAnswers(c *run.Context, defaults config.Defaults) (string, string, error) {
	name := defaults.GitName
	if prompt.HumanName.Validate(name) != nil {
		var err error
		name, err = c.Ask.Ask("Full name for git commits", prompt.HumanName)
		if err != nil {
			return "", "", err
		}
	}
	email := defaults.GitEmail
	if prompt.Email.Validate(email) != nil {
		var err error
		email, err = c.Ask.Ask("Email address for git commits", prompt.Email)
		if err != nil {
			return "", "", err
		}
	}
	return name, email, nil
}

// sshKeyStep generates an ed25519 key pair. When a key already exists the
// step is skipped and the existing public key is printed so the user can
// register it wherever they need it.
func sshKeyStep(defaults config.Defaults) run.Step {
	return run.Step{
		Name:  "SSH key",
		Fatal: true,
		Guard: func(c *run.Context) (bool, error) {
			return fileExists(filepath.Join(c.Home, sshKeyFile))
		},
		OnSkip: printPublicKey,
		Body: func(c *run.Context) error {
			return c.Exec.Run(c, run.Do(
				"generate SSH key pair",
				func(c *run.Context) error {
					keyPath := filepath.Join(c.Home, sshKeyFile)
					if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
						return fmt.Errorf("failed to create .ssh directory: %w", err)
					}
					comment := defaults.GitEmail
					if comment == "" {
						comment = "devstation"
					}
					if err := c.Exec.Run(c, run.Command(
						"run ssh-keygen",
						"ssh-keygen", "-t", "ed25519", "-f", keyPath, "-N", "", "-C", comment)); err != nil {
						return err
					}
					printPublicKey(c)
					return nil
				}))
		},
	}
}

// printPublicKey reports the public half of the SSH key through the run
// log. Key material here is public by definition; the private key never
// leaves disk.
func printPublicKey(c *run.Context) {
	pub, err := os.ReadFile(filepath.Join(c.Home, sshKeyFile+".pub"))
	if err != nil {
		c.Rec.Warnf("could not read public key: %v", err)
		return
	}
	c.Rec.Infof("SSH public key: %s", strings.TrimSpace(string(pub)))
}

// keyRegistrationStep optionally registers the public key with the user's
// forge account. Everything about it is non-fatal: declining, a malformed
// token after the retry budget, and a failed upload all degrade to manual
// fallback instructions, and the pipeline continues.
func keyRegistrationStep(cfg config.Config) run.Step {
	return run.Step{
		Name: "forge key registration",
		Body: func(c *run.Context) error {
			return c.Exec.Run(c, run.Do(
				"register SSH public key with forge (interactive)",
				func(c *run.Context) error {
					if !c.Ask.Confirm("Register the SSH public key with your forge account?", false) {
						c.Rec.Infof("key registration declined")
						return nil
					}
					pub, err := os.ReadFile(filepath.Join(c.Home, sshKeyFile+".pub"))
					if err != nil {
						c.Rec.Warnf("could not read public key: %v", err)
						manualKeyFallback(c, cfg)
						return nil
					}
					host, _ := os.Hostname()
					uploader := credential.KeyUploader{URL: cfg.Forge.KeysURL, Rec: c.Rec}
					err = credential.AcquireAndConsume(c.Rec, c.Ask,
						"forge access token (write:public_key scope)",
						uploader.Upload("devstation:"+host, strings.TrimSpace(string(pub))))
					if err != nil {
						c.Rec.Warnf("key registration failed: %v", err)
						manualKeyFallback(c, cfg)
					}
					return nil
				}))
		},
	}
}

// manualKeyFallback tells the user how to finish the registration by hand.
func manualKeyFallback(c *run.Context, cfg config.Config) {
	c.Rec.Infof("register the key manually: copy %s and add it at your forge's SSH keys settings page (%s)",
		filepath.Join(c.Home, sshKeyFile+".pub"), cfg.Forge.KeysURL)
}
