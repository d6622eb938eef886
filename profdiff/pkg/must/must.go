package must

// Must panics if err is not nil. Use it for errors which are programming mistakes, like flag registration.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func Get[T any](value T, err error) T {
	Must(err)
	return value
}
