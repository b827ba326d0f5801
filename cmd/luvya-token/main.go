// ABOUTME: Mints a developer bearer token for exercising require_auth gateways.
// ABOUTME: Usage: luvya-token [-secret S] [-subject demo-user] [-ttl 1h] [-base-url URL]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/luvya/luvya-gateway/internal/auth"
)

func main() {
	secret := flag.String("secret", os.Getenv("LUVYA_JWT_SECRET"), "signing secret (defaults to LUVYA_JWT_SECRET)")
	subject := flag.String("subject", "demo-user", "token subject (user id)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	baseURL := flag.String("base-url", "", "gateway base URL for issuer/audience claims (must match server.base_url)")
	flag.Parse()

	if err := run(*secret, *subject, *baseURL, *ttl); err != nil {
		log.Fatal(err)
	}
}

func run(secret, subject, baseURL string, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("a signing secret is required: pass -secret or set LUVYA_JWT_SECRET")
	}
	if subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	verifier := auth.NewJWTVerifier([]byte(secret), strings.TrimRight(baseURL, "/"))
	token, err := verifier.Generate(subject, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	return nil
}
