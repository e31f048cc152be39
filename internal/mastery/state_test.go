package mastery

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	e := NewEngine(twoSkillGraph(), DefaultParams())
	for _, ev := range fixedEvents() {
		e.ProcessEvent(ev)
	}
	e.SeedFromDiagnostic("learner-2", map[string]float64{"basic": 0.85})

	blob, err := e.ExportState()
	require.NoError(t, err)

	fresh := NewEngine(twoSkillGraph(), DefaultParams())
	require.NoError(t, fresh.ImportState(blob))

	for _, learnerID := range []string{"learner-1", "learner-2"} {
		orig := e.GetLearnerModel(learnerID)
		got := fresh.GetLearnerModel(learnerID)
		require.NotNil(t, got, "learner %s missing after import", learnerID)
		require.Equal(t, orig.TotalEvents, got.TotalEvents)
		require.Len(t, got.SkillProbabilities, len(orig.SkillProbabilities))
		for skillID, sp := range orig.SkillProbabilities {
			require.NotNil(t, got.SkillProbabilities[skillID])
			// Exact equality: the wire form must preserve probabilities
			// bit-for-bit.
			require.Equal(t, sp.PMastery, got.SkillProbabilities[skillID].PMastery,
				"pMastery for %s/%s", learnerID, skillID)
		}
	}
}

func TestExportState_Stable(t *testing.T) {
	e := NewEngine(twoSkillGraph(), DefaultParams())
	for _, ev := range fixedEvents() {
		e.ProcessEvent(ev)
	}
	a, err := e.ExportState()
	require.NoError(t, err)
	b, err := e.ExportState()
	require.NoError(t, err)
	require.Equal(t, a, b, "exports of identical state must be byte-identical")
}

func TestImportState_MalformedLeavesStateUntouched(t *testing.T) {
	e := NewEngine(twoSkillGraph(), DefaultParams())
	for _, ev := range fixedEvents() {
		e.ProcessEvent(ev)
	}
	before := e.PMastery("learner-1", "basic")

	cases := []string{
		"not json at all",
		`{"learners": {}}`,                     // missing version
		`{"version": "2.0.0", "learners": {}}`, // incompatible major
		`{"version": "1.0.0", "learners": {"x": null}}`,
		`{"version": "1.0.0", "learners": {"x": {"skills": {"a": {"p_mastery": 1.5}}}}}`,
	}
	for _, blob := range cases {
		err := e.ImportState(blob)
		require.Error(t, err, "blob %q", blob)
		require.True(t, errors.Is(err, ErrMalformedState), "blob %q: %v", blob, err)
		require.Equal(t, before, e.PMastery("learner-1", "basic"),
			"state mutated by rejected import of %q", blob)
		require.Equal(t, 3, e.GetLearnerModel("learner-1").TotalEvents)
	}
}

func TestImportState_SameMajorAccepted(t *testing.T) {
	e := NewEngine(twoSkillGraph(), DefaultParams())
	blob, err := e.ExportState()
	require.NoError(t, err)

	bumped := strings.Replace(blob, `"version":"1.0.0"`, `"version":"1.3.0"`, 1)
	require.NotEqual(t, blob, bumped, "version field not found in export")
	require.NoError(t, e.ImportState(bumped))
}

func TestImportState_ReplacesExistingModels(t *testing.T) {
	e := NewEngine(twoSkillGraph(), DefaultParams())
	for _, ev := range fixedEvents() {
		e.ProcessEvent(ev)
	}

	empty := NewEngine(twoSkillGraph(), DefaultParams())
	blob, err := empty.ExportState()
	require.NoError(t, err)

	require.NoError(t, e.ImportState(blob))
	require.Nil(t, e.GetLearnerModel("learner-1"), "old models must not survive import")
}
