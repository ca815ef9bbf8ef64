package invitation

import (
	"errors"
	"testing"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

func TestNewCode(t *testing.T) {
	t.Parallel()

	seen := make(map[Code]bool)
	for range 50 {
		c, err := NewCode(DefaultCodeLength)
		if err != nil {
			t.Fatalf("NewCode() error = %v", err)
		}
		if len(c) != DefaultCodeLength {
			t.Errorf("len(code) = %d, want %d", len(c), DefaultCodeLength)
		}
		if !c.IsValid() {
			t.Errorf("NewCode() = %q is not valid", c)
		}
		seen[c] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}

	for _, n := range []int{0, MinCodeLength - 1, MaxCodeLength + 1} {
		if _, err := NewCode(n); err == nil {
			t.Errorf("NewCode(%d) error = nil, want error", n)
		}
	}
}

func TestCode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want bool
	}{
		{code: "ABCDEFGH", want: true},
		{code: "ABC", want: false},
		{code: "ABCDEFG0", want: false},
		{code: "abcdefgh", want: false},
	}
	for _, tt := range tests {
		if got := tt.code.IsValid(); got != tt.want {
			t.Errorf("Code(%q).IsValid() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestInvitation_Validate(t *testing.T) {
	t.Parallel()

	inv := Invitation{Code: "ABCDEFGH", Status: StatusOpen, Email: "bob@example.com", IssuerID: user.NewID()}
	if err := inv.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	inv = Invitation{Code: "x", Status: "pending", Email: "nope"}
	err := inv.Validate()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	for _, f := range []string{"code", "status", "email", "issuer_id"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("Fields = %v, missing %q", verr.Fields, f)
		}
	}
}

func TestInvitation_IsConfidential(t *testing.T) {
	t.Parallel()

	issuer := user.User{ID: user.NewID()}
	inv := Invitation{ID: NewID(), IssuerID: issuer.ID}

	_, err := access.Authorize(inv, issuer, &issuer)
	if !errors.Is(err, access.ErrAccessibleForConfidantsOnly) {
		t.Errorf("Authorize() non-confidant error = %v, want %v", err, access.ErrAccessibleForConfidantsOnly)
	}

	issuer.Confidant = true
	if _, err := access.Authorize(inv, issuer, &issuer); err != nil {
		t.Errorf("Authorize() confidant error = %v, want nil", err)
	}
}

func TestInvitation_Represent(t *testing.T) {
	t.Parallel()

	invitee := user.NewID()
	inv := Invitation{ID: NewID(), Code: "ABCDEFGH", Status: StatusAccepted, Email: "bob@example.com", IssuerID: user.NewID(), InviteeID: &invitee}
	rep := inv.Represent()
	if rep.InviteeID != invitee.String() || rep.Status != "accepted" || rep.Code != "ABCDEFGH" {
		t.Errorf("Represent() = %+v", rep)
	}
}
