package session

import "log/slog"

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets a custom session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom session transport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithManagerLogger sets the logger for session events.
func WithManagerLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}
