package planner

// Sample calls draw up to attempts times and returns the first value accept
// approves. When every draw is rejected it returns fallback() unchecked with
// ok set to false. tries is the number of draws made.
func Sample[T any](attempts int, draw func() T, accept func(T) bool, fallback func() T) (value T, tries int, ok bool) {
	for tries < attempts {
		tries++
		v := draw()
		if accept(v) {
			return v, tries, true
		}
	}
	return fallback(), tries, false
}
