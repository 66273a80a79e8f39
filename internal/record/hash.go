package record

import (
	"crypto/md5"
	"encoding/hex"
)

// LineHash returns the ledger key for a raw log line: the lowercase hex MD5
// of its bytes.
//
// The format is shared with ledgers written by earlier versions of the tool,
// so it must not change. MD5 is used as a content fingerprint only; a
// collision is treated as a true duplicate.
func LineHash(line string) string {
	sum := md5.Sum([]byte(line))
	return hex.EncodeToString(sum[:])
}
