// Package planproof signs and verifies a plan.Compiled's identity and
// checksum as a JWT, so a plan handed across a process or trust boundary
// (e.g. from a compile service to an execution worker) can be checked for
// tampering before it is run.
package planproof

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vflowhq/workflow-engine/pkg/plan"
)

// ErrChecksumMismatch marks a token whose claims verify but whose checksum
// no longer matches the plan presented alongside it — the plan was altered
// after signing.
var ErrChecksumMismatch = errors.New("planproof: plan checksum does not match signed claim")

// PlanClaims binds a JWT to one compiled plan's identity and digest.
type PlanClaims struct {
	PlanID   string `json:"plan_id"`
	Checksum string `json:"checksum"`
	jwt.RegisteredClaims
}

// DefaultTTL bounds how long a signed plan proof remains valid: long enough
// to cross a process boundary to a separately-deployed evaluator, short
// enough that a leaked token does not stay usable indefinitely.
const DefaultTTL = 24 * time.Hour

// Sign produces a JWT (HS256) asserting p's PlanID and Checksum, valid for
// DefaultTTL from now.
func Sign(p *plan.Compiled, secret []byte) (string, error) {
	now := time.Now()
	claims := PlanClaims{
		PlanID:   p.PlanID,
		Checksum: p.Checksum,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(DefaultTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("planproof: signing: %w", err)
	}
	return signed, nil
}

// Verify checks tokenString's signature and expiry, then confirms its
// claims match p's PlanID and Checksum fields exactly, failing with
// ErrChecksumMismatch otherwise, even if the token itself is validly
// signed. It compares the stored fields only: the checksum is not
// recomputed from p's nodes, edges, or per-step inputs, so a change to
// those that leaves p.Checksum untouched is not detected.
func Verify(tokenString string, p *plan.Compiled, secret []byte) error {
	claims := &PlanClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("planproof: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("planproof: %w", err)
	}
	if !token.Valid {
		return errors.New("planproof: token is not valid")
	}

	if claims.PlanID != p.PlanID || claims.Checksum != p.Checksum {
		return ErrChecksumMismatch
	}
	return nil
}
