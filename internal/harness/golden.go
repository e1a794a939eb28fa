package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// RunWithGolden executes a scenario and compares the rendered output
// against testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	out, err := Run(context.Background(), s)
	require.NoError(t, err, "scenario %s", s.Name)

	g := goldie.New(t)
	g.Assert(t, s.Name, []byte(out))
}
