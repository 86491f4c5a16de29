package app

import (
	"net/http"
	"path/filepath"

	"pairauth/internal/api"
	"pairauth/internal/domain"
	authsvc "pairauth/internal/services/auth"
	pairingsvc "pairauth/internal/services/pairing"
	"pairauth/internal/store"
)

const stateFilename = "state.json"

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	KV      *store.FileKV
	Keyring domain.Keyring
	Tokens  domain.TokenStore
	API     domain.APIClient
	Auth    *authsvc.Service
	Pairing *pairingsvc.Service
	HTTP    *http.Client
}

// NewWire constructs the dependency graph from cfg. Building the auth service
// ensures both key pairs exist and resolves the initial session state.
func NewWire(cfg Config) (*Wire, error) {
	kv := store.NewFileKV(filepath.Join(cfg.Home, stateFilename))
	keyring := store.NewKeyringStore(kv)
	tokens := store.NewTokenFileStore(kv)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := api.New(cfg.BaseURL, httpClient)

	auth, err := authsvc.New(keyring, tokens, client, cfg.Logger)
	if err != nil {
		return nil, err
	}
	pairing := pairingsvc.New(keyring, auth, client, cfg.Confirm, cfg.Logger)

	return &Wire{
		KV:      kv,
		Keyring: keyring,
		Tokens:  tokens,
		API:     client,
		Auth:    auth,
		Pairing: pairing,
		HTTP:    httpClient,
	}, nil
}
