package store

import "fmt"

// DebugDump prints internal state; scratch helper for build validation.
func DebugDump(m *Memory, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Printf("DUMP[%s] mem=%p specs=%d\n", label, m, len(m.specs))
	for name := range m.specs {
		fmt.Printf("DUMP[%s]   %s: docs=%d order=%d\n", label, name, len(m.docs[name]), len(m.order[name]))
	}
}
