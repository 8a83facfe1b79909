package testutil

import (
	"context"
	"fmt"

	"github.com/sebschrader/gpg-verify-update-hook/internal/keyring"
	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

// FakeEngine is a scripted keyring.Engine.
//
// Behavior of a keyring's Verify, in precedence order:
//
//  1. If Script has an entry for the signature, those events are returned.
//  2. If any key imported into that keyring maps to the signature in
//     Accept, a GOODSIG event is returned.
//  3. Otherwise an ERRSIG event with the no-public-key code is returned.
//
// Every keyring ever created is retained in Keyrings so tests can assert
// isolation and cleanup.
type FakeEngine struct {
	// Accept maps key-blob contents to the signature that key validates.
	Accept map[string]string

	// BadImports lists key-blob contents whose import fails.
	BadImports map[string]bool

	// Script maps signatures to fixed event sequences.
	Script map[string][]status.Event

	// Keyrings records every keyring handed out, in creation order.
	Keyrings []*FakeKeyring
}

// NewFakeEngine returns an engine with empty scripts.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Accept:     make(map[string]string),
		BadImports: make(map[string]bool),
		Script:     make(map[string][]status.Event),
	}
}

// NewKeyring hands out a fresh recording keyring.
func (e *FakeEngine) NewKeyring(ctx context.Context) (keyring.Keyring, error) {
	ring := &FakeKeyring{engine: e}
	e.Keyrings = append(e.Keyrings, ring)
	return ring, nil
}

// FakeKeyring records imports and exposes its lifecycle state.
type FakeKeyring struct {
	engine   *FakeEngine
	Imported []string
	Closed   bool
}

func (k *FakeKeyring) Import(ctx context.Context, key []byte) error {
	if k.engine.BadImports[string(key)] {
		return fmt.Errorf("unparseable key material")
	}
	k.Imported = append(k.Imported, string(key))
	return nil
}

func (k *FakeKeyring) Verify(ctx context.Context, payload, signature []byte) ([]status.Event, error) {
	if events, ok := k.engine.Script[string(signature)]; ok {
		return events, nil
	}
	for _, key := range k.Imported {
		if k.engine.Accept[key] == string(signature) {
			return []status.Event{{
				Keyword: status.KeywordGoodSig,
				Args:    []string{"ABCDEF0123456789", "Test Signer <signer@example.com>"},
			}}, nil
		}
	}
	return []status.Event{{
		Keyword: status.KeywordErrSig,
		Args:    []string{"ABCDEF0123456789", "1", "8", "00", "0", "9"},
	}}, nil
}

func (k *FakeKeyring) Close() error {
	k.Closed = true
	return nil
}
