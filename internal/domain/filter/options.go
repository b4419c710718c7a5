package filter

// Option applies a configuration option to the State.
type Option func(*State)

// WithQuery seeds the initial free-text query.
func WithQuery(text string) Option {
	return func(s *State) {
		s.query = text
	}
}

// WithCategory seeds the initial category selection, typically from the
// host's URL state.
func WithCategory(slug string) Option {
	return func(s *State) {
		s.category = slug
	}
}
