// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the rune-level lexer for calculator formulas.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/calc/internal/calcerr"
	"nickandperla.net/calc/internal/token"
)

// Scanner tokenizes a normalized formula rune-by-rune. Input must already
// use '.' as the decimal point and carry no grouping separators.
type Scanner struct {
	reader   *bufio.Reader
	pos      int // byte offset of the next rune
	lastSize int
	pending  []token.Token
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

func (s *Scanner) readRune() (rune, error) {
	r, size, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.pos += size
	s.lastSize = size
	return r, nil
}

func (s *Scanner) unreadRune() {
	if err := s.reader.UnreadRune(); err == nil {
		s.pos -= s.lastSize
	}
}

// Peek returns the next token without consuming it. A nil token means EOF.
func (s *Scanner) Peek() (*token.Token, error) {
	if len(s.pending) > 0 {
		return &s.pending[0], nil
	}
	t, err := s.Next()
	if err != nil || t == nil {
		return t, err
	}
	s.pending = append([]token.Token{*t}, s.pending...)
	return t, nil
}

// Next returns the next raw token from the input, or nil at EOF.
func (s *Scanner) Next() (*token.Token, error) {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return &t, nil
	}

	for {
		start := s.pos
		r, err := s.readRune()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		switch {
		case unicode.IsSpace(r):
			continue

		case isDigit(r):
			s.unreadRune()
			text, err := s.scanNumber()
			if err != nil {
				return nil, err
			}
			t := token.Number(text, start)
			return &t, nil

		case isNameRune(r):
			s.unreadRune()
			if err := s.scanNames(); err != nil {
				return nil, err
			}
			return s.Next()

		case r == token.RunePi:
			t := token.Constant(r, false, start)
			return &t, nil

		case r == token.RuneOpenBracket:
			t := token.OpenBracket(start)
			return &t, nil

		case r == token.RuneCloseBracket:
			t := token.CloseBracket(start)
			return &t, nil
		}

		op := token.OpFromRune(r)
		switch {
		case op.IsBinary():
			t := token.Operator(op, start)
			return &t, nil
		case op.IsUnary():
			t := token.Function(op, start)
			return &t, nil
		}
		return nil, calcerr.At(calcerr.UnknownToken, string(r), start)
	}
}

// scanNumber reads \d+(\.\d*)?. A trailing point is consumed but left out
// of the literal so that "5." reads as 5.
func (s *Scanner) scanNumber() (string, error) {
	var sb strings.Builder
	seenPoint := false
	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if isDigit(r) {
			sb.WriteRune(r)
			continue
		}
		if r == token.RuneDecimalPoint && !seenPoint {
			seenPoint = true
			sb.WriteRune(r)
			continue
		}
		s.unreadRune()
		break
	}
	return strings.TrimSuffix(sb.String(), "."), nil
}

// scanNames reads a run of name letters and splits it into function and
// constant tokens, longest name first. An unmatched remainder is an error.
func (s *Scanner) scanNames() error {
	start := s.pos
	var sb strings.Builder
	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !isNameRune(r) {
			s.unreadRune()
			break
		}
		sb.WriteRune(r)
	}

	run := sb.String()
	offset := 0
	for offset < len(run) {
		rest := run[offset:]
		matched := false
		for _, op := range token.Functions {
			name := op.String()
			if strings.HasPrefix(rest, name) {
				s.pending = append(s.pending, token.Function(op, start+offset))
				offset += len(name)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if rest[0] == byte(token.RuneE) {
			s.pending = append(s.pending, token.Constant(token.RuneE, false, start+offset))
			offset++
			continue
		}
		return calcerr.At(calcerr.UnknownToken, rest, start+offset)
	}
	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isNameRune matches the lowercase letters and the superscript glyphs of
// the inverse functions.
func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '⁻' || r == '¹'
}
