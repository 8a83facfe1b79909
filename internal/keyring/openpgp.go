package keyring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/sebschrader/gpg-verify-update-hook/internal/status"
)

// unknownKeyID stands in when the signature carries no issuer key id.
const unknownKeyID = "0000000000000000"

// OpenPGPEngine verifies in-process with ProtonMail/go-crypto. It emits
// the same status vocabulary as gpg, so the interpreter is engine-blind.
type OpenPGPEngine struct{}

// NewKeyring returns an empty in-process keyring.
func (OpenPGPEngine) NewKeyring(ctx context.Context) (Keyring, error) {
	return &openpgpKeyring{}, nil
}

type openpgpKeyring struct {
	entities openpgp.EntityList
}

func (k *openpgpKeyring) Import(ctx context.Context, key []byte) error {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(key))
	if err != nil {
		// Not armored; try the binary serialization.
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(key))
		if err != nil {
			return fmt.Errorf("parse key material: %w", err)
		}
	}
	k.entities = append(k.entities, entities...)
	return nil
}

func (k *openpgpKeyring) Verify(ctx context.Context, payload, signature []byte) ([]status.Event, error) {
	signer, err := openpgp.CheckArmoredDetachedSignature(
		k.entities,
		bytes.NewReader(payload),
		bytes.NewReader(signature),
		nil,
	)

	keyID := issuerKeyID(signature)
	if signer != nil {
		keyID = fmt.Sprintf("%016X", signer.PrimaryKey.KeyId)
	}
	identity := "[unknown]"
	if signer != nil {
		if ident := signer.PrimaryIdentity(); ident != nil {
			identity = ident.Name
		}
	}

	switch {
	case err == nil:
		return []status.Event{{Keyword: status.KeywordGoodSig, Args: []string{keyID, identity}}}, nil

	case errors.Is(err, pgperrors.ErrUnknownIssuer):
		return []status.Event{{
			Keyword: status.KeywordErrSig,
			Args:    []string{keyID, "0", "0", "00", "0", "9"},
		}}, nil

	case errors.Is(err, pgperrors.ErrSignatureExpired):
		return []status.Event{{Keyword: status.KeywordExpSig, Args: []string{keyID, identity}}}, nil

	case errors.Is(err, pgperrors.ErrKeyExpired):
		return []status.Event{{Keyword: status.KeywordExpKeySig, Args: []string{keyID, identity}}}, nil

	case errors.Is(err, pgperrors.ErrKeyRevoked):
		return []status.Event{{Keyword: status.KeywordRevKeySig, Args: []string{keyID, identity}}}, nil
	}

	var sigErr pgperrors.SignatureError
	if errors.As(err, &sigErr) {
		return []status.Event{{Keyword: status.KeywordBadSig, Args: []string{keyID, identity}}}, nil
	}

	// Structural problems (unparseable armor, truncated packets) could
	// not be checked at all.
	return []status.Event{{
		Keyword: status.KeywordErrSig,
		Args:    []string{keyID, "0", "0", "00", "0", "0"},
	}}, nil
}

func (k *openpgpKeyring) Close() error {
	k.entities = nil
	return nil
}

// issuerKeyID digs the issuer key id out of the signature packet for
// diagnostics when no matching entity exists.
func issuerKeyID(signature []byte) string {
	var body io.Reader = bytes.NewReader(signature)
	if block, err := armor.Decode(bytes.NewReader(signature)); err == nil {
		body = block.Body
	}
	reader := packet.NewReader(body)
	for {
		p, err := reader.Next()
		if err != nil {
			return unknownKeyID
		}
		if sig, ok := p.(*packet.Signature); ok && sig.IssuerKeyId != nil {
			return fmt.Sprintf("%016X", *sig.IssuerKeyId)
		}
	}
}
