// Package access decides who may read or change a submission.
//
// Every function here is pure: it receives the caller's id, the submission
// the caller is addressing (nil when the store had nothing under that id),
// and the shared secret from the URL when the route carries one. It never
// touches the store. The service layer loads, asks, then mutates.
//
// THE RULES, IN ORDER (first match wins):
//
//  1. No submission                         → not found
//  2. Shared-link route, empty secret       → unauthorized
//  3. Secret given but wrong                → not found (same body as rule 1)
//  4. Plain read of a private submission    → owner only
//  5. Delete / toggle visibility            → owner only, the secret never counts
//  6. Comment / review / like changes       → private needs a valid secret;
//     deleting an entry also needs its author
//
// WHY DOES A WRONG SECRET LOOK LIKE "NOT FOUND"?
// A 401 would confirm to someone guessing ids that a submission exists.
// Answering exactly as if the id were unknown gives them nothing.
package access

import (
	"crypto/subtle"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/model"
)

// Messages shared by every not-found path so a disguised secret mismatch is
// byte-for-byte identical to an unknown id.
const (
	msgNotFound      = "submission not found"
	msgMissingSecret = "you must provide a private_id"
	msgNotAuthorized = "user not authorized"
	msgPrivate       = "submission is private"
)

// Secret is the private id supplied on a shared-link route.
//
// Present distinguishes "this route takes a secret" from "this route does
// not": a shared-link route with an empty value is rule 2, while a plain
// route has no secret at all.
type Secret struct {
	Present bool
	Value   string
}

// NoSecret is used by routes without a private id segment.
func NoSecret() Secret { return Secret{} }

// SharedLink wraps the private id taken from a shared-link route.
func SharedLink(value string) Secret { return Secret{Present: true, Value: value} }

// ErrNotFound builds the one not-found error every submission lookup uses.
func ErrNotFound() error { return apperror.NotFoundMessage(msgNotFound) }

// checkSecret applies rules 1-3. It reports whether a valid secret was given.
func checkSecret(sub *model.Submission, secret Secret) (bool, error) {
	if sub == nil {
		return false, ErrNotFound()
	}
	if !secret.Present {
		return false, nil
	}
	if secret.Value == "" {
		return false, apperror.Unauthorized(msgMissingSecret)
	}
	if subtle.ConstantTimeCompare([]byte(secret.Value), []byte(sub.PrivateID)) != 1 {
		return false, ErrNotFound()
	}
	return true, nil
}

// CheckRead decides whether callerID may see sub.
func CheckRead(callerID string, sub *model.Submission, secret Secret) error {
	valid, err := checkSecret(sub, secret)
	if err != nil {
		return err
	}
	if valid || !sub.IsPrivate || sub.IsOwner(callerID) {
		return nil
	}
	return apperror.Unauthorized(msgNotAuthorized)
}

// CheckOwner guards delete and visibility toggle. There is no secret
// parameter: knowing the private id grants reading and commenting, never
// ownership.
func CheckOwner(callerID string, sub *model.Submission) error {
	if sub == nil {
		return ErrNotFound()
	}
	if !sub.IsOwner(callerID) {
		return apperror.Unauthorized(msgNotAuthorized)
	}
	return nil
}

// CheckEntryWrite guards adding (or reaching an entry to delete) on a
// submission's comments and reviews. Any authenticated caller may write to a
// public submission; a private one needs the valid secret, owner included.
func CheckEntryWrite(sub *model.Submission, secret Secret) error {
	valid, err := checkSecret(sub, secret)
	if err != nil {
		return err
	}
	if sub.IsPrivate && !valid {
		return apperror.Unauthorized(msgPrivate)
	}
	return nil
}

// CheckEntryAuthor guards deleting one comment or review: only the
// caller who wrote it may remove it.
func CheckEntryAuthor(callerID, authorID string) error {
	if callerID == "" || callerID != authorID {
		return apperror.Unauthorized(msgNotAuthorized)
	}
	return nil
}

// CheckLike guards like and unlike, which exist only on public submissions.
// A private submission answers not found so likes cannot probe for it.
func CheckLike(sub *model.Submission) error {
	if sub == nil || sub.IsPrivate {
		return ErrNotFound()
	}
	return nil
}
