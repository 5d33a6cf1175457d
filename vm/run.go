package vm

import (
	"context"

	"github.com/cloudcmds/tapevm/compiler"
)

// Run executes the given compiled code in a new Virtual Machine.
func Run(ctx context.Context, main *compiler.Code, options ...Option) error {
	return New(main, options...).Run(ctx)
}
