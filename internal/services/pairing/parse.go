package pairing

import (
	"encoding/json"

	"pairauth/internal/domain"
)

// Accepted field aliases across backend protocol versions. Enumerated once
// here; nothing else guesses field names.
var (
	cipherAliases    = []string{"cipher", "ciphertext"}
	nonceAliases     = []string{"nonce"}
	serverKeyAliases = []string{"public_key", "server_public_key"}
	userCodeAliases  = []string{"user_code", "userCode"}
	challengeAliases = []string{"challenge"}
)

// ParseRequest parses scanned QR text. JSON with a session_id wins; anything
// else is treated as a bare session id.
func ParseRequest(text string) domain.PairingRequest {
	var req domain.PairingRequest
	if err := json.Unmarshal([]byte(text), &req); err == nil && req.SessionID != "" {
		return req
	}
	return domain.PairingRequest{SessionID: text}
}

// parseScanResponse classifies a scan response body: the encrypted envelope
// shape is tried first, then the plain shape. An empty body is a valid plain
// response with nothing in it.
func parseScanResponse(raw []byte) (domain.ScanResponse, error) {
	if len(raw) == 0 {
		return domain.ScanResponse{Plain: &domain.PlainPayload{}}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.ScanResponse{}, err
	}

	cipher := lookupString(fields, cipherAliases)
	nonce := lookupString(fields, nonceAliases)
	if cipher != "" && nonce != "" {
		return domain.ScanResponse{Encrypted: &domain.EncryptedEnvelope{
			Ciphertext:      cipher,
			Nonce:           nonce,
			ServerPublicKey: lookupString(fields, serverKeyAliases),
		}}, nil
	}

	return domain.ScanResponse{Plain: parsePlain(fields)}, nil
}

func parsePlain(fields map[string]json.RawMessage) *domain.PlainPayload {
	return &domain.PlainPayload{
		UserCode:  lookupString(fields, userCodeAliases),
		Challenge: lookupString(fields, challengeAliases),
	}
}

// parsePlainBytes parses a decrypted payload as the plain shape.
func parsePlainBytes(raw []byte) (*domain.PlainPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return parsePlain(fields), nil
}

func lookupString(fields map[string]json.RawMessage, aliases []string) string {
	for _, name := range aliases {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}
