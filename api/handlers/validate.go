package handlers

import "fmt"

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}

func errInvalid(field string) error {
	return fmt.Errorf("%s is invalid", field)
}

func errFuture(field string) error {
	return fmt.Errorf("%s cannot be in the future", field)
}
