package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synclist-hub/internal/domain"
)

func TestTaskAccessPolicy(t *testing.T) {
	policy := TaskAccessPolicy{}
	alice := Requester{Name: "alice"}
	admin := Requester{Name: "root", IsAdmin: true}
	task := &domain.TaskRecord{ID: "t1", CreatedBy: "bob"}

	t.Run("admin sees everything", func(t *testing.T) {
		scoped := policy.Scope(admin, domain.TaskFilter{})
		assert.Nil(t, scoped.CreatedBy)
		assert.NoError(t, policy.Authorize(admin, task))
	})

	t.Run("others see their own", func(t *testing.T) {
		scoped := policy.Scope(alice, domain.TaskFilter{Page: domain.PageRequest{Limit: 5}})
		require.NotNil(t, scoped.CreatedBy)
		assert.Equal(t, "alice", *scoped.CreatedBy)
		assert.Equal(t, 5, scoped.Page.Limit)

		var notFound *domain.NotFoundError
		assert.ErrorAs(t, policy.Authorize(alice, task), &notFound)
		assert.NoError(t, policy.Authorize(alice, &domain.TaskRecord{ID: "t2", CreatedBy: "alice"}))
	})
}
