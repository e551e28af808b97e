package types

type Failure struct {
	Key    string `yaml:"key" json:"key"`
	Reason string `yaml:"reason" json:"reason"`
}

// FailureLog keeps at most one failure per key, in insertion order. The
// first reason recorded for a key is kept; later ones are dropped.
// The zero value is ready to use.
type FailureLog struct {
	entries []Failure
	index   map[string]struct{}
}

// Record appends key if it is absent and reports whether it was added.
func (l *FailureLog) Record(key string, reason string) bool {
	if l.index == nil {
		l.index = map[string]struct{}{}
	}
	if _, ok := l.index[key]; ok {
		return false
	}
	l.index[key] = struct{}{}
	l.entries = append(l.entries, Failure{Key: key, Reason: reason})
	return true
}

func (l *FailureLog) Has(key string) bool {
	_, ok := l.index[key]
	return ok
}

func (l *FailureLog) Reason(key string) (string, bool) {
	for _, entry := range l.entries {
		if entry.Key == key {
			return entry.Reason, true
		}
	}
	return "", false
}

func (l *FailureLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded failures in insertion order.
func (l *FailureLog) Entries() []Failure {
	if len(l.entries) == 0 {
		return nil
	}
	return append([]Failure(nil), l.entries...)
}
