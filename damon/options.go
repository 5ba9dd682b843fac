package damon

// Option опция курсора.
type Option func(o *options, _ optionRestriction)

type optionRestriction struct{}

type options struct {
	logger Logger
	frame  int
}

// WithLogger установка логгера событий курсора.
func WithLogger(logger Logger) Option {
	return func(o *options, _ optionRestriction) {
		o.logger = logger
	}
}

// WithReadFrame минимальный размер порции чтения из файла.
func WithReadFrame(frame int) Option {
	return func(o *options, _ optionRestriction) {
		o.frame = frame
	}
}

func collectOptions(opts []Option) options {
	o := options{
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(&o, optionRestriction{})
	}
	if o.logger == nil {
		o.logger = nopLogger{}
	}

	return o
}
