// Package xid generates prefixed identifiers for sales, returns and
// withdrawals. The prefix makes the record kind obvious in logs and in
// the persisted document.
package xid

import "github.com/google/uuid"

func New(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
