package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AccountID records the local account identifier under the key "account_id".
func AccountID(id int64) slog.Attr {
	return slog.Int64("account_id", id)
}

// Provider records an identity provider key under the key "provider".
func Provider(p string) slog.Attr {
	return slog.String("provider", p)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
