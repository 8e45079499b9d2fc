package flownodes

import (
	"context"
	"time"

	"github.com/arclight-dev/taskloom/internal/domain"
)

// DefaultComprehensionTestType is used when the session doesn't request a
// specific quiz shape.
const DefaultComprehensionTestType = domain.ComprehensionShortAnswer

// ComprehensionTest calls the Tester adapter with the configured type and
// appends the result to Task.ComprehensionTests (§4.6).
func ComprehensionTest(ctx context.Context, fc Context, deps Deps) (Context, error) {
	next := fc.Clone()

	test, err := deps.Tester.GenerateComprehensionTest(ctx, next.Task, DefaultComprehensionTestType)
	if err != nil {
		return fc, err
	}
	next.Task.ComprehensionTests = append(next.Task.ComprehensionTests, test)
	next.Task.UpdatedAt = time.Now().UTC()

	if err := deps.SaveTask(next.Task); err != nil {
		return fc, err
	}
	next.emit("comprehension_test_generated", map[string]string{"test_id": test.ID})
	return next, nil
}
