package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const clientCookieName = "courier_client"

const clientCookieMaxAge = 180 * 24 * time.Hour

type clientKey struct{}

// clientSessions issues and verifies the signed cookie that names a
// client's state slots. It identifies a browser, not a person.
type clientSessions struct {
	secret []byte
	secure bool
}

// newClientSessions uses a random key when secret is empty, so cookies do
// not survive a restart.
func newClientSessions(secret string, secure bool) (*clientSessions, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &clientSessions{secret: key, secure: secure}, nil
}

func (c *clientSessions) sign(payload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func (c *clientSessions) createValue(clientID string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(clientID))
	return payload + "." + hex.EncodeToString(c.sign(payload))
}

func (c *clientSessions) verifyValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, c.sign(payload)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(string(decoded)); err != nil {
		return "", false
	}
	return string(decoded), true
}

func (c *clientSessions) setCookie(w http.ResponseWriter, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    c.createValue(clientID),
		Path:     "/",
		MaxAge:   int(clientCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// middleware attaches the client id to the request context, minting a new
// one when the cookie is missing or does not verify.
func (c *clientSessions) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if cookie, err := r.Cookie(clientCookieName); err == nil {
			clientID, _ = c.verifyValue(cookie.Value)
		}
		if clientID == "" {
			clientID = uuid.New().String()
			c.setCookie(w, clientID)
		}

		ctx := context.WithValue(r.Context(), clientKey{}, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}
