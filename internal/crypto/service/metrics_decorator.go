package service

import (
	"context"
	"time"

	cryptoDomain "github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/crypto/domain"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/errors"
	"github.com/Fatherly-P-Titus/SAM-SchoolSystem/internal/metrics"
)

// metricsDomain labels every engine metric.
const metricsDomain = "crypto"

// MetricsCrypter decorates a Crypter with operation counters and duration
// histograms. Throttle refusals and completed rotations feed their dedicated
// counters. Cheap pure helpers (Hash, Encode64, Decode64) are passed through
// unrecorded.
type MetricsCrypter struct {
	inner Crypter
	biz   metrics.BusinessMetrics
}

var _ Crypter = (*MetricsCrypter)(nil)

// NewMetricsCrypter wraps inner with metrics recording.
func NewMetricsCrypter(inner Crypter, biz metrics.BusinessMetrics) *MetricsCrypter {
	return &MetricsCrypter{inner: inner, biz: biz}
}

func (m *MetricsCrypter) record(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ctx := context.Background()
	m.biz.RecordOperation(ctx, metricsDomain, op, status)
	m.biz.RecordDuration(ctx, metricsDomain, op, time.Since(start), status)
}

// Encrypt records the operation and delegates.
func (m *MetricsCrypter) Encrypt(plaintext []byte) ([]byte, error) {
	start := time.Now()
	out, err := m.inner.Encrypt(plaintext)
	m.record("encrypt", start, err)
	return out, err
}

// Decrypt records the operation, counting throttle refusals separately.
func (m *MetricsCrypter) Decrypt(combined []byte) ([]byte, error) {
	start := time.Now()
	out, err := m.inner.Decrypt(combined)
	if errors.Is(err, cryptoDomain.ErrTooManyAttempts) {
		m.biz.RecordThrottleTrip(context.Background())
	}
	m.record("decrypt", start, err)
	return out, err
}

// EncryptEncode records the operation and delegates.
func (m *MetricsCrypter) EncryptEncode(plaintext string) (string, error) {
	start := time.Now()
	out, err := m.inner.EncryptEncode(plaintext)
	m.record("encrypt_encode", start, err)
	return out, err
}

// DecodeDecrypt records the operation, counting throttle refusals separately.
func (m *MetricsCrypter) DecodeDecrypt(encoded string) (string, error) {
	start := time.Now()
	out, err := m.inner.DecodeDecrypt(encoded)
	if errors.Is(err, cryptoDomain.ErrTooManyAttempts) {
		m.biz.RecordThrottleTrip(context.Background())
	}
	m.record("decode_decrypt", start, err)
	return out, err
}

// EncryptBatch records the operation and delegates.
func (m *MetricsCrypter) EncryptBatch(plaintexts []string) ([]string, error) {
	start := time.Now()
	out, err := m.inner.EncryptBatch(plaintexts)
	m.record("encrypt_batch", start, err)
	return out, err
}

// DecryptBatch records the operation and delegates.
func (m *MetricsCrypter) DecryptBatch(encoded []string) ([]string, error) {
	start := time.Now()
	out, err := m.inner.DecryptBatch(encoded)
	m.record("decrypt_batch", start, err)
	return out, err
}

// Hash delegates without recording.
func (m *MetricsCrypter) Hash(data string) string {
	return m.inner.Hash(data)
}

// HashPBKDF2 records the operation and delegates.
func (m *MetricsCrypter) HashPBKDF2(password []byte) (string, error) {
	start := time.Now()
	out, err := m.inner.HashPBKDF2(password)
	m.record("hash_pbkdf2", start, err)
	return out, err
}

// VerifyPBKDF2 records the operation and delegates.
func (m *MetricsCrypter) VerifyPBKDF2(password []byte, encoded string) (bool, error) {
	start := time.Now()
	ok, err := m.inner.VerifyPBKDF2(password, encoded)
	m.record("verify_pbkdf2", start, err)
	return ok, err
}

// Encode64 delegates without recording.
func (m *MetricsCrypter) Encode64(data []byte) string {
	return m.inner.Encode64(data)
}

// Decode64 delegates without recording.
func (m *MetricsCrypter) Decode64(encoded string) ([]byte, error) {
	return m.inner.Decode64(encoded)
}

// Key delegates without recording.
func (m *MetricsCrypter) Key() []byte {
	return m.inner.Key()
}

// SetKey records the operation and counts a key rotation on success.
func (m *MetricsCrypter) SetKey(ctx context.Context, key []byte) error {
	start := time.Now()
	err := m.inner.SetKey(ctx, key)
	if err == nil {
		m.biz.RecordRotation(ctx, "key")
	}
	m.record("set_key", start, err)
	return err
}

// IV delegates without recording.
func (m *MetricsCrypter) IV() []byte {
	return m.inner.IV()
}

// RotateIVs records the operation and counts an IV rotation on success.
func (m *MetricsCrypter) RotateIVs() error {
	start := time.Now()
	err := m.inner.RotateIVs()
	if err == nil {
		m.biz.RecordRotation(context.Background(), "iv")
	}
	m.record("rotate_ivs", start, err)
	return err
}

// RotateKey records the operation and counts a key rotation on success.
func (m *MetricsCrypter) RotateKey(ctx context.Context) error {
	start := time.Now()
	err := m.inner.RotateKey(ctx)
	if err == nil {
		m.biz.RecordRotation(ctx, "key")
	}
	m.record("rotate_key", start, err)
	return err
}

// GenerateSecureRandom delegates without recording.
func (m *MetricsCrypter) GenerateSecureRandom(n int) ([]byte, error) {
	return m.inner.GenerateSecureRandom(n)
}

// ValidateKeyStrength delegates without recording.
func (m *MetricsCrypter) ValidateKeyStrength(key []byte) error {
	return m.inner.ValidateKeyStrength(key)
}

// SecurityAudit records the operation and delegates.
func (m *MetricsCrypter) SecurityAudit() AuditReport {
	start := time.Now()
	report := m.inner.SecurityAudit()
	m.record("security_audit", start, nil)
	return report
}

// SecureWipe delegates without recording.
func (m *MetricsCrypter) SecureWipe() {
	m.inner.SecureWipe()
}
