package app

// Test-support seam. OverrideComponents and ResetComponents exist so tests
// can substitute a deterministic bundle without touching process-wide file
// state. Production code has no call path into either; nothing outside
// _test.go files may use them.

// OverrideComponents replaces the cached bundle with a caller-supplied one.
// Shutdown will still wipe an overridden bundle's crypter, so hand in
// throwaway components.
func (p *Provider) OverrideComponents(components *Components) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.components = components
	p.securityLog = nil
}

// ResetComponents drops the cached bundle without wiping it, so the next
// access rebuilds from scratch. Unlike Shutdown it leaves the substituted
// components untouched.
func (p *Provider) ResetComponents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.components = nil
	p.securityLog = nil
	p.records = nil
	p.credentials = nil
	p.fallback = false
	p.initErrors = make(map[string]error)
}
