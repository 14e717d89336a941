// internal/vault/vault.go
//
// Minimal HashiCorp Vault KV-v2 helper.
//
// Context
// -------
// The only secret this service pulls from Vault is the control-plane DB
// password, referenced from YAML as `vault:<mount>/<path>#<field>`.  The
// client is created lazily on first resolve and reused; values are cached
// for the process lifetime because config is immutable after Load().
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token via the SDK).
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	vaultapi "github.com/hashicorp/vault/api"
)

// URIPrefix marks a config value as a Vault indirection.
const URIPrefix = "vault:"

var (
	mu     sync.Mutex
	client *vaultapi.Client
	cache  = map[string]string{}
)

func getClient() (*vaultapi.Client, error) {
	if client != nil {
		return client, nil
	}
	cfg := vaultapi.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	c, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		c.SetToken(tok)
	}
	client = c
	return client, nil
}

// Resolve turns `vault:<mount>/<path>#<field>` into the secret value.
func Resolve(ctx context.Context, uri string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if v, ok := cache[uri]; ok {
		return v, nil
	}

	ref := strings.TrimPrefix(uri, URIPrefix)
	path, field, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("vault: malformed reference %q (want mount/path#field)", uri)
	}
	mount, secretPath, ok := strings.Cut(path, "/")
	if !ok {
		return "", fmt.Errorf("vault: malformed path %q (want mount/path)", path)
	}

	c, err := getClient()
	if err != nil {
		return "", err
	}
	sec, err := c.KVv2(mount).Get(ctx, secretPath)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	raw, ok := sec.Data[field]
	if !ok {
		return "", fmt.Errorf("vault: field %q absent at %s", field, path)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: field %q at %s is not a string", field, path)
	}

	cache[uri] = val
	return val, nil
}
