package errors

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_AddAndWarnings(t *testing.T) {
	r := NewReport()
	assert.Equal(t, 0, r.Len())

	r.Add(WarnUnknownGrade, "odd grade", map[string]interface{}{"letter_grade": "Q"})
	r.Add(WarnSkippedRow, "skipped", nil)

	require.Equal(t, 2, r.Len())
	warnings := r.Warnings()
	assert.Equal(t, WarnUnknownGrade, warnings[0].Code)
	assert.Equal(t, "Q", warnings[0].Context["letter_grade"])
	assert.Equal(t, WarnSkippedRow, warnings[1].Code)
}

func TestReport_WarningsReturnsCopy(t *testing.T) {
	r := NewReport()
	r.Add(WarnDuplicatePrefix, "dup", nil)

	warnings := r.Warnings()
	warnings[0].Code = WarnUnknownTerm

	assert.Equal(t, WarnDuplicatePrefix, r.Warnings()[0].Code)
}

func TestReport_ConcurrentAdd(t *testing.T) {
	r := NewReport()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(WarnUnknownCollege, "concurrent", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Len())
}

func TestWarning_String(t *testing.T) {
	w := Warning{Code: WarnUnknownTerm, Message: "no calendar anchor"}
	assert.Equal(t, "[UNKNOWN_TERM] no calendar anchor", w.String())
}
