package printjob_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

var now = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func TestNewPrintJob(t *testing.T) {
	t.Run("instant submission completes immediately", func(t *testing.T) {
		j, err := printjob.NewPrintJob(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			printjob.Submission{Handle: "MOCK-090000", Backend: "mock", Instant: true}, 25, now)

		require.NoError(t, err)
		assert.Equal(t, printjob.Completed, j.Status())
		require.NotNil(t, j.CompletedAt())
		assert.Equal(t, now, j.StartedAt())
	})

	t.Run("spooler submission keeps printing", func(t *testing.T) {
		j, err := printjob.NewPrintJob(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			printjob.Submission{Handle: "LXM-Card-Printer-15", Backend: "cups"}, 25, now)

		require.NoError(t, err)
		assert.Equal(t, printjob.Printing, j.Status())
		assert.Nil(t, j.CompletedAt())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := printjob.NewPrintJob(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{},
			printjob.Submission{}, 0, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestPrintJob_CompleteAndFail(t *testing.T) {
	j, err := printjob.NewPrintJob(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		printjob.Submission{Handle: "LXM-Card-Printer-15", Backend: "cups"}, 1, now)
	require.NoError(t, err)

	assert.True(t, j.Complete(now.Add(time.Minute)))
	assert.False(t, j.Complete(now.Add(time.Hour)))
	assert.False(t, j.Fail("paper jam", now))
	assert.Equal(t, now.Add(time.Minute), *j.CompletedAt())
	assert.Nil(t, j.ErrorMessage())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []printjob.Status{printjob.Queued, printjob.Printing, printjob.Completed, printjob.Failed} {
		parsed, err := printjob.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
