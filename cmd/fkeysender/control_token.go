// cmd/fkeysender/control_token.go
package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/OsbornePro/FKeySender/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "fkeysender"
	keyringUser    = "control-token"
)

// Header-safe; no characters a shell or HTTP client would need to escape.
var controlTokenCharset = []rune(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz" +
		"0123456789" +
		"-_",
)

func generateControlToken() (string, error) {
	// Random length between 40 and 49
	lenRange := int64(10)
	base := int64(40)

	n, err := rand.Int(rand.Reader, big.NewInt(lenRange))
	if err != nil {
		return "", err
	}
	length := base + n.Int64()

	tokenRunes := make([]rune, length)
	for i := range tokenRunes {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(controlTokenCharset))))
		if err != nil {
			return "", err
		}
		tokenRunes[i] = controlTokenCharset[idx.Int64()]
	}

	return string(tokenRunes), nil
}

// cmdToken manages the control API token. The plaintext lives in the OS
// keyring; config only ever holds its bcrypt hash.
func cmdToken(args []string, configPath string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: fkeysender token new|show")
		return exitUsage
	}

	switch args[0] {
	case "new":
		tok, err := rotateControlToken(configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		fmt.Fprintln(stdout, tok)
		return exitOK

	case "show":
		tok, err := keyring.Get(keyringService, keyringUser)
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Fprintln(stderr, "no control token stored; run `fkeysender token new`")
			return exitFailure
		}
		if err != nil {
			fmt.Fprintf(stderr, "keyring: %v\n", err)
			return exitFailure
		}
		fmt.Fprintln(stdout, tok)
		return exitOK

	default:
		fmt.Fprintf(stderr, "unknown token action %q (expected new|show)\n", args[0])
		return exitUsage
	}
}

func rotateControlToken(configPath string) (string, error) {
	tok, err := generateControlToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	addSecret(tok)

	hash, err := config.HashSecret([]byte(tok))
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}

	// Keyring is best effort: headless Linux often has no secret service.
	if err := keyring.Set(keyringService, keyringUser, tok); err != nil {
		logrus.WithError(err).Warn("could not store control token in keyring; copy it now, `token show` will not work")
	}

	cfg.Control.TokenHash = hash
	if err := config.Save(configPath, cfg); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	logrus.WithField("config", configPath).Info("control token rotated")
	return tok, nil
}
