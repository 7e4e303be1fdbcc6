package window

import "fmt"

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateGauss(size int, std float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if !(std > 0) || std > 1e300 {
		return fmt.Errorf("gauss std must be finite and > 0: %f", std)
	}
	return nil
}
