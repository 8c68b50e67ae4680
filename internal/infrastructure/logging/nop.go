package logging

// NewNopLogger returns a Logger that discards everything. Intended for tests.
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Init() {}

func (nopLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Debugf(template string, args ...any)                                     {}

func (nopLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Infof(template string, args ...any)                                     {}

func (nopLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Warnf(template string, args ...any)                                     {}

func (nopLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Errorf(template string, args ...any)                                     {}

func (nopLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {}
func (nopLogger) Fatalf(template string, args ...any)                                     {}
