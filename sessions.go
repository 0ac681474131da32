package checkout

import "time"

type sessionEntry struct {
	wizard   *Wizard
	lastSeen time.Time
}

// Wizard returns the wizard of a browser session, creating it on first use.
// Its transient state lives in the configured store under sessionID.
func (e *Engine) Wizard(sessionID string) *Wizard {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.wizards[sessionID]
	if !ok {
		entry = &sessionEntry{wizard: newWizard(e, e.provider.Open(sessionID))}
		e.wizards[sessionID] = entry
	}
	entry.lastSeen = e.now()
	return entry.wizard
}

func (e *Engine) Forget(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.wizards, sessionID)
}

// Sweep drops wizards idle for longer than idle and returns how many went.
// Transient state in the store is left alone.
func (e *Engine) Sweep(idle time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-idle)
	removed := 0
	for id, entry := range e.wizards {
		if entry.lastSeen.Before(cutoff) && !entry.wizard.guard.active() {
			delete(e.wizards, id)
			removed++
		}
	}
	return removed
}
