package session_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/goliatone/go-sitepages/internal/session"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPropertySaveKeepsEditsUnderRemoteFailure(t *testing.T) {
	schema := aboutSchema(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("local sections equal the saved edit", prop.ForAll(
		func(title string, width int, enabled bool) bool {
			ctx := context.Background()
			s, err := session.Open(schema, unreachableStore{}, session.WithClock(fixedClock()))
			if err != nil {
				return false
			}
			s.Load(ctx)

			edited := s.Sections()
			edited[0].Data["title"] = title
			edited[0].Data["descriptionMaxWidth"] = float64(width)
			edited[len(edited)-1].Enabled = enabled

			op := s.SaveSections(ctx, edited)
			if op.Local.Err != nil {
				return false
			}
			remote := op.Wait()
			if remote.Err == nil {
				return false
			}
			return reflect.DeepEqual(s.Sections(), edited) &&
				reflect.DeepEqual(s.Document().Sections, edited) &&
				s.State() == session.StateSaveFailed
		},
		gen.AnyString(),
		gen.IntRange(300, 1200),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
