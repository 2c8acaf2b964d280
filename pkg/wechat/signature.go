// wxnote - WeChat to Notion note relay
// WeChat official account (公众号) server verification
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package wechat

import (
	"crypto/sha1"
	"crypto/subtle"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Signature computes the SHA1 hex digest WeChat expects over the sorted
// concatenation of token, timestamp and nonce.
func Signature(token, timestamp, nonce string) string {
	params := []string{token, timestamp, nonce}
	sort.Strings(params)

	hash := sha1.Sum([]byte(strings.Join(params, "")))
	return fmt.Sprintf("%x", hash)
}

// VerifySignature reports whether signature matches. A missing field is a
// failed check, never an error.
func VerifySignature(token, signature, timestamp, nonce string) bool {
	if token == "" || signature == "" || timestamp == "" || nonce == "" {
		return false
	}
	expected := Signature(token, timestamp, nonce)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// VerifyQuery checks the signature/timestamp/nonce triple carried in a
// callback URL's query string.
func VerifyQuery(token string, query url.Values) bool {
	return VerifySignature(token, query.Get("signature"), query.Get("timestamp"), query.Get("nonce"))
}
