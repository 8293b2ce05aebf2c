package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 signing key from cfg.KeyFile, or generates
// an ephemeral one when no file is configured. With an ephemeral key every
// outstanding token dies on restart, which is acceptable for development and
// explicit when it happens: the log line says so.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.Signer, error) {
	if cfg.KeyFile == "" {
		signer, err := jwtx.GenerateSigner()
		if err != nil {
			return nil, err
		}
		logger.Warn("no AUTH_KEY_FILE configured, using an ephemeral signing key; all tokens invalidate on restart")
		return signer, nil
	}

	pemBytes, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return createKeyFile(cfg.KeyFile, logger)
		}
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	signer, err := jwtx.NewSignerFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", cfg.KeyFile, err)
	}

	logger.Info("signing key loaded", "path", cfg.KeyFile)
	return signer, nil
}

// createKeyFile generates a fresh key and persists it so tokens survive
// restarts from then on.
func createKeyFile(path string, logger *slog.Logger) (*jwtx.Signer, error) {
	signer, err := jwtx.GenerateSigner()
	if err != nil {
		return nil, err
	}

	pemBytes, err := signer.MarshalPEM()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		return nil, fmt.Errorf("persist signing key: %w", err)
	}

	logger.Info("generated new signing key", "path", path)
	return signer, nil
}
