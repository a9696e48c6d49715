package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("COMERCIANTES_TEST_MODE") == "" {
			_ = os.Setenv("COMERCIANTES_TEST_MODE", "1")
		}
	})
}
