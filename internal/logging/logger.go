package logging

// Logger is the capability surface the rest of the application logs security
// events through. Error and Fatal take the causing error; Fatal records the
// highest severity but never terminates the process, that decision belongs to
// the caller.
type Logger interface {
	Trace(message string)
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string, err error)
	Fatal(message string, err error)

	// Flush persists buffered entries.
	Flush() error

	// Close flushes and releases the underlying file. Safe to call more than
	// once.
	Close() error
}

// LineCrypter seals and opens persisted log lines. The symmetric engine
// satisfies it.
type LineCrypter interface {
	EncryptEncode(plaintext string) (string, error)
	DecodeDecrypt(encoded string) (string, error)
}
