package validation

// Result is one validator's outcome within a chain run.
type Result struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validator is a single named check over a value of type T.
type Validator[T any] interface {
	Name() string
	Validate(value T) Result
}

// Chain executes an ordered list of validators. In stop-on-first-fail mode
// (the default) execution stops at the first invalid result and the partial
// result list is returned; in collect-all mode every validator runs.
type Chain[T any] struct {
	validators []Validator[T]
	collectAll bool
}

type Option[T any] func(*Chain[T])

// CollectAll makes the chain run every validator regardless of failures.
func CollectAll[T any]() Option[T] {
	return func(c *Chain[T]) {
		c.collectAll = true
	}
}

func NewChain[T any](validators []Validator[T], opts ...Option[T]) *Chain[T] {
	c := &Chain[T]{validators: validators}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate runs the validators in list order and returns their results in
// execution order.
func (c *Chain[T]) Validate(value T) []Result {
	results := make([]Result, 0, len(c.validators))
	for _, v := range c.validators {
		result := v.Validate(value)
		results = append(results, result)
		if !result.Valid && !c.collectAll {
			break
		}
	}
	return results
}

// IsValid reports whether every collected result is valid.
func (c *Chain[T]) IsValid(value T) bool {
	for _, result := range c.Validate(value) {
		if !result.Valid {
			return false
		}
	}
	return true
}
