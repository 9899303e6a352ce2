// Package filter classifies received frames with whitelist and blacklist
// regular expressions evaluated over the frame's lowercase hex rendering.
//
// Patterns are compiled once with case-insensitive, whitespace-ignoring,
// multiline and dot-matches-newline semantics. A compiled Filter is
// immutable and safe for concurrent use.
package filter

import (
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/bft-labs/nethex/internal/domain"
)

// Verdict is the outcome of evaluating a frame.
type Verdict int

const (
	Accept Verdict = iota
	RejectByWhitelist
	RejectByBlacklist
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case RejectByWhitelist:
		return "reject-whitelist"
	case RejectByBlacklist:
		return "reject-blacklist"
	default:
		return "unknown"
	}
}

// Filter holds the compiled whitelist and blacklist. A nil pattern is absent.
type Filter struct {
	whitelist *regexp.Regexp
	blacklist *regexp.Regexp
}

// Compile builds a Filter. An empty string leaves that list unset.
// A syntactically invalid pattern yields an error wrapping domain.ErrInvalidFilter.
func Compile(whitelist, blacklist string) (*Filter, error) {
	wl, err := compilePattern(whitelist)
	if err != nil {
		return nil, fmt.Errorf("%w: whitelist: %v", domain.ErrInvalidFilter, err)
	}
	bl, err := compilePattern(blacklist)
	if err != nil {
		return nil, fmt.Errorf("%w: blacklist: %v", domain.ErrInvalidFilter, err)
	}
	return &Filter{whitelist: wl, blacklist: bl}, nil
}

// Enabled reports whether at least one list is set.
func (f *Filter) Enabled() bool {
	return f != nil && (f.whitelist != nil || f.blacklist != nil)
}

// Evaluate classifies a frame. With no lists set every frame, including the
// empty one, is accepted without rendering it.
func (f *Filter) Evaluate(frame []byte) Verdict {
	if !f.Enabled() {
		return Accept
	}
	s := hex.EncodeToString(frame)
	if f.whitelist != nil && !f.whitelist.MatchString(s) {
		return RejectByWhitelist
	}
	if f.blacklist != nil && f.blacklist.MatchString(s) {
		return RejectByBlacklist
	}
	return Accept
}

// Whitelist returns the compiled whitelist source, or "" if unset.
func (f *Filter) Whitelist() string {
	if f == nil || f.whitelist == nil {
		return ""
	}
	return f.whitelist.String()
}

// Blacklist returns the compiled blacklist source, or "" if unset.
func (f *Filter) Blacklist() string {
	if f == nil || f.blacklist == nil {
		return ""
	}
	return f.blacklist.String()
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if p == "" {
		return nil, nil
	}
	return regexp.Compile("(?ims)" + stripExtended(p))
}
