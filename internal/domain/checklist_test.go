package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteChecklist(t *testing.T) {
	t.Parallel()

	stored := []*ChecklistItem{
		{ItemID: ChecklistDraftsResolved, Status: ChecklistDone},
	}

	items := CompleteChecklist("c1", "fy1", stored)
	require.Len(t, items, len(ChecklistItems))

	for i, item := range items {
		assert.Equal(t, ChecklistItems[i], item.ItemID)
		if item.ItemID == ChecklistDraftsResolved {
			assert.Equal(t, ChecklistDone, item.Status)
			continue
		}
		assert.Equal(t, ChecklistPending, item.Status)
		assert.Equal(t, "c1", item.CompanyID)
		assert.Equal(t, "fy1", item.FiscalYearID)
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	withStatuses := func(statuses ...ChecklistStatus) []*ChecklistItem {
		items := CompleteChecklist("c", "fy", nil)
		for i, s := range statuses {
			items[i].Status = s
		}
		return items
	}

	t.Run("empty checklist", func(t *testing.T) {
		p := Progress(withStatuses())
		assert.Equal(t, 11, p.Total)
		assert.Equal(t, 11, p.Pending)
		assert.Equal(t, 0.0, p.Percentage)
		assert.False(t, p.IsComplete)
	})

	t.Run("eight of eleven done", func(t *testing.T) {
		p := Progress(withStatuses(
			ChecklistDone, ChecklistDone, ChecklistDone, ChecklistDone,
			ChecklistDone, ChecklistDone, ChecklistDone, ChecklistDone,
		))
		assert.Equal(t, 8, p.Done)
		assert.Equal(t, 72.73, p.Percentage)
		assert.False(t, p.IsComplete)
	})

	t.Run("skipped and na resolve items", func(t *testing.T) {
		p := Progress(withStatuses(
			ChecklistDone, ChecklistDone, ChecklistDone, ChecklistSkipped,
			ChecklistNA, ChecklistNA, ChecklistNA, ChecklistNA,
			ChecklistNA, ChecklistSkipped, ChecklistDone,
		))
		assert.Equal(t, 4, p.Done)
		assert.Equal(t, 2, p.Skipped)
		assert.Equal(t, 5, p.NA)
		assert.Equal(t, 0, p.Pending)
		assert.Equal(t, 36.36, p.Percentage)
		assert.True(t, p.IsComplete)
	})
}

func TestChecklistEnums(t *testing.T) {
	t.Parallel()

	assert.True(t, ChecklistTrialBalanceBalanced.IsValid())
	assert.False(t, ChecklistItemID("coffee_brewed").IsValid())
	assert.True(t, ChecklistNA.IsValid())
	assert.False(t, ChecklistStatus("maybe").IsValid())
}
