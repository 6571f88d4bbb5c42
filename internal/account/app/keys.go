package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/bizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
)

// InitSessionKeys loads or creates the Ed25519 key that signs provider
// session tokens. Without a key file the key lives only in memory and every
// session ends when the process restarts.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.KeySet, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load session key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(cfg.KeyID, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("parse session key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	if cfg.KeyFile == "" {
		logger.Warn("using ephemeral session key; sessions will not survive a restart", "kid", cfg.KeyID)
	} else {
		logger.Info("session key loaded", "kid", cfg.KeyID, "path", cfg.KeyFile)
	}
	return signer, keys, nil
}
