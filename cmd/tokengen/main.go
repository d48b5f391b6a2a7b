// Command tokengen mints signed development tokens in the issuer's claims
// shape, for exercising the API locally without the external auth provider.
//
//	tokengen -key dev_private.pem -tenant demo1234 -roles admin,member
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"authgate/internal/auth"
)

func main() {
	var (
		keyPath     = flag.String("key", "", "path to RSA private key PEM (required)")
		tenantID    = flag.String("tenant", "", "tenant the token is issued for (required)")
		userID      = flag.Int64("user-id", 1, "numeric user id")
		userUUID    = flag.String("user-uuid", "", "stable user uuid (generated when empty)")
		roles       = flag.String("roles", "", "comma-separated roles in the tenant")
		permissions = flag.String("permissions", "", "comma-separated permissions in the tenant")
		mode        = flag.String("mode", "test", `issuer environment tag ("test" or "live")`)
		confirmed   = flag.Bool("confirmed", true, "mark the principal's identity as confirmed")
		sessionID   = flag.String("session", "", "login session id (generated when empty)")
		issuer      = flag.String("issuer", "", "iss claim (optional)")
		audience    = flag.String("audience", "", "aud claim (optional)")
		ttl         = flag.Duration("ttl", 15*time.Minute, "token lifetime")
	)
	flag.Parse()

	if *keyPath == "" || *tenantID == "" {
		flag.Usage()
		os.Exit(2)
	}

	priv, err := auth.LoadPrivateKeyFile(*keyPath)
	if err != nil {
		log.Fatalf("load private key: %v", err)
	}

	signer, err := auth.NewSigner(auth.SignerConfig{
		PrivateKey: priv,
		Issuer:     *issuer,
		TTL:        *ttl,
	})
	if err != nil {
		log.Fatalf("signer: %v", err)
	}

	token, err := signer.Issue(time.Now(), auth.TokenRequest{
		Mode:        *mode,
		TenantID:    *tenantID,
		UserID:      *userID,
		UserUUID:    *userUUID,
		IsConfirmed: *confirmed,
		SessionID:   *sessionID,
		Audience:    *audience,
		Authorization: map[string]auth.TenantAuthorization{
			*tenantID: {
				Roles:       splitList(*roles),
				Permissions: splitList(*permissions),
			},
		},
	})
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println(token)
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
