package domain

import (
	"bytes"
	"crypto/rand"
	"time"

	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
)

// IVVault holds the pair of initialization vectors used by the symmetric
// engine, with secure generation, per-slot replacement, rotation and wiping.
//
// Invariants: both slots, when present, are exactly Size() bytes, never
// all-zero, and mutually distinct. The vault performs no I/O; persistence
// belongs to the service layer, and the vault never holds the key its
// serialized form is encrypted under.
//
// The vault is not synchronized. It is mutated only by its owning engine,
// inside that engine's critical sections.
type IVVault struct {
	iv1          []byte
	iv2          []byte
	size         int
	initialized  bool
	lastRotation time.Time
}

// NewIVVault creates a vault of the given IV size with both slots filled from
// a cryptographically secure random source. The returned vault is fully valid;
// a partially constructed vault is never observable.
func NewIVVault(size int) (*IVVault, error) {
	v, err := NewEmptyIVVault(size)
	if err != nil {
		return nil, err
	}
	if err := v.Rotate(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewEmptyIVVault creates an uninitialized vault of the given IV size. Both
// slots are nil; Validate reports false until they are populated. This is the
// target shape for loading a persisted vault.
func NewEmptyIVVault(size int) (*IVVault, error) {
	if size < MinIVSize || size > MaxIVSize {
		return nil, errors.Wrapf(ErrInvalidIVSize, "size %d outside [%d, %d]", size, MinIVSize, MaxIVSize)
	}
	return &IVVault{size: size}, nil
}

// Size returns the IV length in bytes.
func (v *IVVault) Size() int { return v.size }

// Initialized reports whether the vault has been populated since creation or
// the last wipe.
func (v *IVVault) Initialized() bool { return v.initialized }

// LastRotation returns the time of the most recent slot change.
func (v *IVVault) LastRotation() time.Time { return v.lastRotation }

// Age returns the time elapsed since the last rotation.
func (v *IVVault) Age() time.Duration { return time.Since(v.lastRotation) }

// IV1 returns a copy of the first slot, or nil when unset. The engine treats
// slot one as the active encryption vector.
func (v *IVVault) IV1() []byte { return copyBytes(v.iv1) }

// IV2 returns a copy of the second slot, or nil when unset.
func (v *IVVault) IV2() []byte { return copyBytes(v.iv2) }

// SetIV1 replaces the first slot. The previous bytes are zeroed before the
// new value is copied in. Rejects nil, wrong-length and all-zero vectors.
func (v *IVVault) SetIV1(iv []byte) error {
	if err := v.checkSlot(iv); err != nil {
		return err
	}
	Zero(v.iv1)
	v.iv1 = copyBytes(iv)
	v.markRotated()
	return nil
}

// SetIV2 replaces the second slot under the same rules as SetIV1.
func (v *IVVault) SetIV2(iv []byte) error {
	if err := v.checkSlot(iv); err != nil {
		return err
	}
	Zero(v.iv2)
	v.iv2 = copyBytes(iv)
	v.markRotated()
	return nil
}

// RotateIV1 zeroes the first slot and refills it with fresh secure random
// bytes of the vault size.
func (v *IVVault) RotateIV1() error {
	fresh, err := RandomBytes(v.size)
	if err != nil {
		return err
	}
	Zero(v.iv1)
	v.iv1 = fresh
	v.markRotated()
	return nil
}

// RotateIV2 zeroes the second slot and refills it with fresh secure random
// bytes of the vault size.
func (v *IVVault) RotateIV2() error {
	fresh, err := RandomBytes(v.size)
	if err != nil {
		return err
	}
	Zero(v.iv2)
	v.iv2 = fresh
	v.markRotated()
	return nil
}

// Rotate refreshes both slots. There is no explicit re-roll should the two
// fresh vectors collide; at 12+ random bytes per slot the chance is
// negligible and the caller-visible distinctness invariant is statistical.
func (v *IVVault) Rotate() error {
	if err := v.RotateIV1(); err != nil {
		return err
	}
	return v.RotateIV2()
}

// Validate reports whether both slots are present, of the exact vault size,
// and not all-zero.
func (v *IVVault) Validate() bool {
	return v.slotValid(v.iv1) && v.slotValid(v.iv2)
}

// Distinct reports whether the two slots hold different byte sequences.
// An unpopulated vault is never distinct.
func (v *IVVault) Distinct() bool {
	if v.iv1 == nil || v.iv2 == nil {
		return false
	}
	return !bytes.Equal(v.iv1, v.iv2)
}

// SecureWipe zeroes and releases both slots and clears the initialized flag.
// The vault can be repopulated afterwards via Set, Rotate or Restore.
func (v *IVVault) SecureWipe() {
	ZeroAll(v.iv1, v.iv2)
	v.iv1 = nil
	v.iv2 = nil
	v.initialized = false
}

// Restore populates both slots from persisted bytes and reinstates the stored
// rotation time, so the freshness policy keeps counting from the original
// rotation rather than from load time.
func (v *IVVault) Restore(iv1, iv2 []byte, rotatedAt time.Time) error {
	if err := v.checkSlot(iv1); err != nil {
		return errors.Wrap(err, "slot 1")
	}
	if err := v.checkSlot(iv2); err != nil {
		return errors.Wrap(err, "slot 2")
	}
	ZeroAll(v.iv1, v.iv2)
	v.iv1 = copyBytes(iv1)
	v.iv2 = copyBytes(iv2)
	v.initialized = true
	v.lastRotation = rotatedAt
	return nil
}

func (v *IVVault) checkSlot(iv []byte) error {
	if iv == nil {
		return errors.Wrap(ErrInvalidIVSize, "nil iv")
	}
	if len(iv) != v.size {
		return errors.Wrapf(ErrInvalidIVSize, "got %d bytes, vault size is %d", len(iv), v.size)
	}
	if IsZero(iv) {
		return ErrZeroIV
	}
	return nil
}

func (v *IVVault) slotValid(iv []byte) bool {
	return iv != nil && len(iv) == v.size && !IsZero(iv)
}

func (v *IVVault) markRotated() {
	v.initialized = true
	v.lastRotation = time.Now()
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// RandomBytes returns n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "secure random source")
	}
	return b, nil
}
