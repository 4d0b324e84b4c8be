package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	t.Parallel()

	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/tarkhineh/tarkhineh/internal/pkg/goroutine.(*Manager).run.func3()
	/src/internal/pkg/goroutine/goroutine.go:78 +0x65
github.com/tarkhineh/tarkhineh/internal/identity/usecase.(*Usecase).RequestOTP(...)
	/src/internal/identity/usecase/request_otp.go:41
`)

	assert.Equal(t, []string{
		"internal/pkg/goroutine/goroutine.go:78",
		"internal/identity/usecase/request_otp.go:41",
	}, InternalPaths(stack))
	assert.Empty(t, InternalPaths(nil))
}
